package pdf

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Split writes exactly the selected pages, in selection order, to a new PDF.
// Selection order is kept, so ["Page 3", "Page 1"] yields page 3 then page 1.
func (s *Service) Split(ctx context.Context, req models.SplitRequest) (result *models.Result, err error) {
	const op = models.OperationSplit
	const failure = "An error occurred while splitting the PDF"

	if req.Document.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to split.")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, models.InputError(op, "Please select at least one page to split.")
	}

	count, err := checkReadable(op, req.Document, 0, failure)
	if err != nil {
		return nil, err
	}

	pages, err := models.ParsePageSelection(req.Pages, count)
	if err != nil {
		return nil, models.NewOperationError(op, models.KindInvalidInput, "Invalid page selection: "+err.Error(), err)
	}

	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
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
		Strs("pages", selected).
		Int("source_pages", count).
		Msg("Splitting PDF")

	file, err := writeOutput(ws, "split.pdf", models.ContentTypePDF, func(w io.Writer) error {
		return api.Collect(bytes.NewReader(req.Document.Data), w, selected, newConfiguration())
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     []models.ArtifactFile{file},
		PageCount: len(pages),
	}
	s.logDone(op, result)
	return result, nil
}
