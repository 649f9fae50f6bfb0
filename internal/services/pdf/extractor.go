// -----------------------------------------------------------------------
// PDF Text Extractor - plain text per page
// Uses ledongthuc/pdf for Go-native text layer reading
// -----------------------------------------------------------------------

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Extractor implements interfaces.TextExtractor using ledongthuc/pdf
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TextExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF text extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger: logger,
	}
}

// ExtractPages extracts the plain text of every page, in page order.
// A page whose text cannot be decoded yields an empty string rather than
// failing the document.
func (e *Extractor) ExtractPages(ctx context.Context, data []byte) (pages []models.PageText, err error) {
	// The reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := reader.NumPage()
	pages = make([]models.PageText, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageText := models.PageText{Page: i}

		page := reader.Page(i)
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				e.logger.Warn().Err(err).Int("page", i).Msg("Failed to extract page text")
			} else {
				pageText.Text = strings.TrimSpace(text)
			}
		}

		pages = append(pages, pageText)
	}

	e.logger.Debug().Int("pages", len(pages)).Msg("Extracted PDF text")

	return pages, nil
}
