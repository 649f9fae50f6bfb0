// -----------------------------------------------------------------------
// Text Extractor Interface - plain text per page from PDF bytes
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"image"

	"github.com/ternarybob/lovedocu/internal/models"
)

// TextExtractor abstracts the PDF text layer reader so conversions can be
// tested against canned page text.
type TextExtractor interface {
	// ExtractPages returns one entry per page, in page order. Pages without a
	// text layer yield an empty string.
	ExtractPages(ctx context.Context, data []byte) ([]models.PageText, error)
}

// PageRenderer abstracts rasterization of PDF pages
type PageRenderer interface {
	// PageCount returns the number of renderable pages
	PageCount(data []byte) (int, error)

	// RenderPages calls fn with each rendered page in order. Rendering stops at
	// the first error returned by fn or when ctx is done.
	RenderPages(ctx context.Context, data []byte, dpi float64, fn func(page int, img image.Image) error) error
}
