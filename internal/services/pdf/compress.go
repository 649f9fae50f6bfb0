package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Compress re-saves the document through pdfcpu's optimizer, which drops
// unused and duplicate objects. The size reduction is whatever the optimizer
// achieves for the given file.
func (s *Service) Compress(ctx context.Context, doc models.UploadedDocument) (result *models.Result, err error) {
	const op = models.OperationCompress
	const failure = "An error occurred while compressing the PDF"

	if doc.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to compress.")
	}

	count, err := checkReadable(op, doc, 0, failure)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, models.NewOperationError(op, models.KindConversionFailure, failure, err)
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	file, err := writeOutput(ws, "compressed.pdf", models.ContentTypePDF, func(w io.Writer) error {
		return api.Optimize(bytes.NewReader(doc.Data), w, newConfiguration())
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	s.logger.Debug().
		Int("input_size", len(doc.Data)).
		Int("output_size", len(file.Data)).
		Msg("PDF compressed")

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
		PageCount: count,
	}
	s.logDone(op, result)
	return result, nil
}
