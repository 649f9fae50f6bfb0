package interfaces

import (
	"context"

	"github.com/ternarybob/lovedocu/internal/models"
)

// DocumentService runs the document operations offered by the tool.
// Every method is stateless: inputs arrive as explicit request values and the
// result carries the output bytes. Errors are *models.OperationError.
type DocumentService interface {
	// Merge concatenates every page of every document, in input order
	Merge(ctx context.Context, req models.MergeRequest) (*models.Result, error)

	// Split writes the selected pages, in selection order, to a new PDF
	Split(ctx context.Context, req models.SplitRequest) (*models.Result, error)

	// Previews renders one thumbnail per page for split selection
	Previews(ctx context.Context, doc models.UploadedDocument) ([]models.PagePreview, error)

	// Compress re-saves the document through the optimizer
	Compress(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)

	// ConvertToWord rebuilds the document text as DOCX paragraphs
	ConvertToWord(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)

	// ConvertToExcel writes one spreadsheet row of plain text per page
	ConvertToExcel(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)

	// ConvertToJPG rasterizes every page into its own JPEG
	ConvertToJPG(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)

	// Watermark stamps a one-page text overlay onto every page
	Watermark(ctx context.Context, req models.WatermarkRequest) (*models.Result, error)

	// PageCount returns the number of pages in the document
	PageCount(ctx context.Context, doc models.UploadedDocument) (int, error)

	// ExtractText returns the plain text of every page
	ExtractText(ctx context.Context, doc models.UploadedDocument) ([]models.PageText, error)
}
