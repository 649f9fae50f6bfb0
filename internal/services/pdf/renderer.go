package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/ternarybob/lovedocu/internal/interfaces"
)

// Renderer implements interfaces.PageRenderer with MuPDF via go-fitz
type Renderer struct{}

// Compile-time interface assertion
var _ interfaces.PageRenderer = (*Renderer)(nil)

// NewRenderer creates a MuPDF page renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// PageCount returns the number of pages MuPDF can see in the document
func (r *Renderer) PageCount(data []byte) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// RenderPages rasterizes each page at dpi and hands it to fn. Page numbers
// passed to fn are 1-based.
func (r *Renderer) RenderPages(ctx context.Context, data []byte, dpi float64, fn func(page int, img image.Image) error) error {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return fmt.Errorf("failed to render page %d: %w", i+1, err)
		}

		if err := fn(i+1, img); err != nil {
			return err
		}
	}

	return nil
}
