package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Overlay geometry: Helvetica 36pt on a Letter page, baseline at (100, 500)
// measured from the bottom-left corner.
const (
	overlayFont     = "Helvetica"
	overlayFontSize = 36
	overlayX        = 100.0
	overlayY        = 500.0

	// Stamp the overlay unscaled and unrotated, on top of page content
	overlayStampDesc = "scalefactor:1 abs, rotation:0, opacity:1"
)

// Watermark renders text into a one-page overlay and stamps that same overlay
// onto every page. The output has the same page count as the input.
func (s *Service) Watermark(ctx context.Context, req models.WatermarkRequest) (result *models.Result, err error) {
	const op = models.OperationWatermark
	const failure = "An error occurred while adding the watermark"

	if req.Document.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to add a watermark.")
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validate.Struct(req); err != nil {
		return nil, models.InputError(op, "Please enter watermark text.")
	}

	count, err := checkReadable(op, req.Document, 0, failure)
	if err != nil {
		return nil, err
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	overlay, err := buildOverlay(req.Text)
	if err != nil {
		return nil, failed(op, failure, err)
	}
	overlayPath, err := ws.WriteFile("watermark.pdf", overlay)
	if err != nil {
		return nil, failed(op, failure, &ioError{err})
	}

	if err := ctx.Err(); err != nil {
		return nil, failed(op, failure, err)
	}

	wm, err := api.PDFWatermark(overlayPath+":1", overlayStampDesc, true, false, types.POINTS)
	if err != nil {
		return nil, failed(op, failure, fmt.Errorf("failed to load overlay: %w", err))
	}

	file, err := writeOutput(ws, "watermarked.pdf", models.ContentTypePDF, func(w io.Writer) error {
		return api.AddWatermarks(bytes.NewReader(req.Document.Data), w, nil, wm, newConfiguration())
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
		PageCount: count,
	}
	s.logDone(op, result)
	return result, nil
}

// buildOverlay draws text onto a single Letter page and returns the PDF bytes
func buildOverlay(text string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(overlayFont, "", overlayFontSize)

	// Core fonts are cp1252; translate so accented text survives
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	pdf.Text(overlayX, pageHeight-overlayY, tr(text))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render overlay: %w", err)
	}
	return buf.Bytes(), nil
}
