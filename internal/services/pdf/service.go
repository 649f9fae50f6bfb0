package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/ternarybob/lovedocu/internal/services/workspace"
)

func init() {
	// pdfcpu would otherwise write a config directory under the user's home
	api.DisableConfigDir()
}

// Service implements interfaces.DocumentService
type Service struct {
	logger     arbor.ILogger
	workspaces *workspace.Manager
	extractor  interfaces.TextExtractor
	renderer   interfaces.PageRenderer
	render     common.RenderConfig
	validate   *validator.Validate
}

// Compile-time assertion
var _ interfaces.DocumentService = (*Service)(nil)

// Option customises a Service
type Option func(*Service)

// WithTextExtractor replaces the default ledongthuc/pdf text extractor
func WithTextExtractor(extractor interfaces.TextExtractor) Option {
	return func(s *Service) {
		s.extractor = extractor
	}
}

// WithPageRenderer replaces the default MuPDF renderer
func WithPageRenderer(renderer interfaces.PageRenderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

// NewService creates a new document service
func NewService(workspaces *workspace.Manager, render common.RenderConfig, logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		logger:     logger,
		workspaces: workspaces,
		extractor:  NewExtractor(logger),
		renderer:   NewRenderer(),
		render:     render,
		validate:   validator.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// newConfiguration returns a relaxed pdfcpu configuration so slightly
// malformed real-world files are still accepted.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in the document
func (s *Service) PageCount(ctx context.Context, doc models.UploadedDocument) (int, error) {
	if doc.Empty() {
		return 0, models.InputError(models.OperationPreview, "Please upload a PDF file.")
	}
	count, err := pageCount(doc.Data)
	if err != nil {
		return 0, models.NewOperationError(models.OperationPreview, models.KindUnreadableDocument,
			fmt.Sprintf("Could not read %s", doc.DisplayName(0)), err)
	}
	return count, nil
}

// ExtractText returns the plain text of every page
func (s *Service) ExtractText(ctx context.Context, doc models.UploadedDocument) ([]models.PageText, error) {
	if doc.Empty() {
		return nil, models.InputError(models.OperationExcel, "Please upload a PDF file to convert.")
	}
	pages, err := s.extractor.ExtractPages(ctx, doc.Data)
	if err != nil {
		return nil, models.NewOperationError(models.OperationExcel, models.KindUnreadableDocument,
			"An error occurred while extracting text", err)
	}
	return pages, nil
}

func pageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), newConfiguration())
}

// writeOutput streams produce into a declared workspace file and reads the
// finished file back as the artifact.
func writeOutput(ws *workspace.Workspace, name, contentType string, produce func(w io.Writer) error) (models.ArtifactFile, error) {
	path := ws.Path(name)

	f, err := os.Create(path)
	if err != nil {
		return models.ArtifactFile{}, &ioError{fmt.Errorf("failed to create %s: %w", name, err)}
	}

	if err := produce(f); err != nil {
		f.Close()
		return models.ArtifactFile{}, err
	}
	if err := f.Close(); err != nil {
		return models.ArtifactFile{}, &ioError{fmt.Errorf("failed to close %s: %w", name, err)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.ArtifactFile{}, &ioError{fmt.Errorf("failed to read back %s: %w", name, err)}
	}

	return models.ArtifactFile{Name: name, ContentType: contentType, Data: data}, nil
}

// ioError marks a failure of the workspace file itself rather than of the
// library producing its content
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// failed wraps err as write_failure when the workspace file failed and as
// conversion_failure otherwise.
func failed(op models.Operation, message string, err error) *models.OperationError {
	var ioErr *ioError
	if errors.As(err, &ioErr) {
		return models.NewOperationError(op, models.KindWriteFailure, message, err)
	}
	return models.NewOperationError(op, models.KindConversionFailure, message, err)
}

// acquire opens a workspace for op, converting failure to a write_failure
func (s *Service) acquire(op models.Operation) (*workspace.Workspace, error) {
	ws, err := s.workspaces.Acquire(op)
	if err != nil {
		return nil, models.NewOperationError(op, models.KindWriteFailure, "Could not prepare a temporary workspace", err)
	}
	return ws, nil
}

// release removes the workspace. Cleanup failures never fail the operation;
// they are attached to result as warnings when there is one.
func (s *Service) release(ws *workspace.Workspace, result *models.Result) {
	for _, warning := range ws.Release() {
		if result != nil {
			result.Warnings = append(result.Warnings, warning.Error())
		}
	}
}

// checkReadable fails with unreadable_document when data is not a parseable PDF
func checkReadable(op models.Operation, doc models.UploadedDocument, index int, message string) (int, error) {
	count, err := pageCount(doc.Data)
	if err != nil {
		return 0, models.NewOperationError(op, models.KindUnreadableDocument,
			fmt.Sprintf("%s (%s)", message, doc.DisplayName(index)), err)
	}
	return count, nil
}

func (s *Service) logDone(op models.Operation, result *models.Result) {
	total := 0
	for _, f := range result.Files {
		total += len(f.Data)
	}
	s.logger.Info().
		Str("operation", string(op)).
		Int("files", len(result.Files)).
		Int("pages", result.PageCount).
		Int("bytes", total).
		Msg("Operation completed")
}
