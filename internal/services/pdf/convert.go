package pdf

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fumiama/go-docx"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/xuri/excelize/v2"
)

// maxCellChars is the spreadsheet limit for a single cell
const maxCellChars = 32767

// ConvertToWord rebuilds the document as DOCX paragraphs. Each text line of a
// page becomes a paragraph; a "Page N" paragraph opens every page. Layout,
// images and fonts are not carried over.
func (s *Service) ConvertToWord(ctx context.Context, doc models.UploadedDocument) (result *models.Result, err error) {
	const op = models.OperationWord
	const failure = "An error occurred while converting PDF to Word"

	pages, err := s.textOf(ctx, op, doc, failure)
	if err != nil {
		return nil, err
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	file, err := writeOutput(ws, "converted.docx", models.ContentTypeDOCX, func(w io.Writer) error {
		_, err := buildDocx(pages).WriteTo(w)
		return err
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
	}
	s.logDone(op, result)
	return result, nil
}

func buildDocx(pages []models.PageText) *docx.Docx {
	w := docx.New().WithDefaultTheme()

	for _, page := range pages {
		w.AddParagraph().AddText(models.PageLabel(page.Page))

		for _, line := range strings.Split(page.Text, "\n") {
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			w.AddParagraph().AddText(line)
		}
	}

	return w
}

// ConvertToExcel writes one row per source page holding that page's plain
// text in column A. Images, layout and tables are not preserved.
func (s *Service) ConvertToExcel(ctx context.Context, doc models.UploadedDocument) (result *models.Result, err error) {
	const op = models.OperationExcel
	const failure = "An error occurred while converting PDF to Excel"

	pages, err := s.textOf(ctx, op, doc, failure)
	if err != nil {
		return nil, err
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	file, err := writeOutput(ws, "converted.xlsx", models.ContentTypeXLSX, func(w io.Writer) error {
		return writeWorkbook(w, pages)
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
	}
	s.logDone(op, result)
	return result, nil
}

func writeWorkbook(w io.Writer, pages []models.PageText) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, page := range pages {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, truncateCell(page.Text)); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// truncateCell cuts text to the cell limit without splitting a rune
func truncateCell(text string) string {
	if utf8.RuneCountInString(text) <= maxCellChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxCellChars])
}

// textOf validates doc and extracts its page text for a conversion
func (s *Service) textOf(ctx context.Context, op models.Operation, doc models.UploadedDocument, failure string) ([]models.PageText, error) {
	if doc.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to convert.")
	}

	if _, err := checkReadable(op, doc, 0, failure); err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(ctx, doc.Data)
	if err != nil {
		return nil, models.NewOperationError(op, models.KindConversionFailure, failure, err)
	}
	return pages, nil
}
