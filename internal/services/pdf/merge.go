package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Merge concatenates every page of every document, in input order.
// An unreadable input aborts the whole merge before any output is written.
func (s *Service) Merge(ctx context.Context, req models.MergeRequest) (result *models.Result, err error) {
	const op = models.OperationMerge
	const failure = "An error occurred while merging PDFs"

	if err := s.validate.Struct(req); err != nil {
		return nil, models.InputError(op, "Please upload at least one PDF file to merge.")
	}

	total := 0
	readers := make([]io.ReadSeeker, 0, len(req.Documents))
	for i, doc := range req.Documents {
		if doc.Empty() {
			return nil, models.InputError(op, "Uploaded file "+doc.DisplayName(i)+" is empty.")
		}
		count, err := checkReadable(op, doc, i, failure)
		if err != nil {
			return nil, err
		}
		total += count
		readers = append(readers, bytes.NewReader(doc.Data))
	}

	if err := ctx.Err(); err != nil {
		return nil, models.NewOperationError(op, models.KindConversionFailure, failure, err)
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	s.logger.Debug().
		Int("documents", len(req.Documents)).
		Int("pages", total).
		Msg("Merging PDFs")

	file, err := writeOutput(ws, "merged.pdf", models.ContentTypePDF, func(w io.Writer) error {
		return api.MergeRaw(readers, w, false, newConfiguration())
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
		PageCount: total,
	}
	s.logDone(op, result)
	return result, nil
}
