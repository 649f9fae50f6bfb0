package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files
const multipartMemory = 32 << 20

// OperationHandler exposes the document operations as multipart upload endpoints
type OperationHandler struct {
	documents interfaces.DocumentService
	artifacts interfaces.ArtifactService
	maxUpload int64
	logger    arbor.ILogger
}

// NewOperationHandler creates a new operation handler. maxUpload <= 0 disables the body limit.
func NewOperationHandler(documents interfaces.DocumentService, artifacts interfaces.ArtifactService, maxUpload int64, logger arbor.ILogger) *OperationHandler {
	return &OperationHandler{
		documents: documents,
		artifacts: artifacts,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// operationResponse is returned by every successful operation
type operationResponse struct {
	Status    string                `json:"status"`
	Operation models.Operation      `json:"operation"`
	PageCount int                   `json:"page_count,omitempty"`
	Artifacts []models.ArtifactLink `json:"artifacts"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// previewResponse lists the thumbnails for split selection
type previewResponse struct {
	PageCount int           `json:"page_count"`
	Previews  []previewItem `json:"previews"`
}

type previewItem struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DataURI string `json:"data_uri"`
}

// MergeHandler handles POST /api/merge with one or more "files" parts
func (h *OperationHandler) MergeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, models.OperationMerge) {
		return
	}

	docs, err := readFiles(r.MultipartForm, "files")
	if err != nil {
		WriteOperationError(w, h.logger, models.NewOperationError(models.OperationMerge, models.KindInvalidInput, "Could not read the uploaded files", err))
		return
	}

	h.run(w, r, models.OperationMerge, func(ctx context.Context) (*models.Result, error) {
		return h.documents.Merge(ctx, models.MergeRequest{Documents: docs})
	})
}

// SplitPreviewHandler handles POST /api/split/preview
func (h *OperationHandler) SplitPreviewHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.singleFile(w, r, models.OperationPreview)
	if !ok {
		return
	}

	previews, err := h.documents.Previews(r.Context(), doc)
	if err != nil {
		WriteOperationError(w, h.logger, err)
		return
	}

	resp := previewResponse{
		PageCount: len(previews),
		Previews:  make([]previewItem, 0, len(previews)),
	}
	for _, p := range previews {
		resp.Previews = append(resp.Previews, previewItem{
			Label:   p.Label,
			Page:    p.Page,
			Width:   p.Width,
			Height:  p.Height,
			DataURI: EncodeDataURI(models.ContentTypePNG, p.PNG),
		})
	}

	WriteJSON(w, http.StatusOK, resp)
}

// SplitHandler handles POST /api/split with "file" and "pages"
func (h *OperationHandler) SplitHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.singleFile(w, r, models.OperationSplit)
	if !ok {
		return
	}

	pages := models.SplitLabels(r.MultipartForm.Value["pages"])

	h.run(w, r, models.OperationSplit, func(ctx context.Context) (*models.Result, error) {
		return h.documents.Split(ctx, models.SplitRequest{Document: doc, Pages: pages})
	})
}

// CompressHandler handles POST /api/compress
func (h *OperationHandler) CompressHandler(w http.ResponseWriter, r *http.Request) {
	h.singleDocument(w, r, models.OperationCompress, h.documents.Compress)
}

// WordHandler handles POST /api/convert/word
func (h *OperationHandler) WordHandler(w http.ResponseWriter, r *http.Request) {
	h.singleDocument(w, r, models.OperationWord, h.documents.ConvertToWord)
}

// ExcelHandler handles POST /api/convert/excel
func (h *OperationHandler) ExcelHandler(w http.ResponseWriter, r *http.Request) {
	h.singleDocument(w, r, models.OperationExcel, h.documents.ConvertToExcel)
}

// JPGHandler handles POST /api/convert/jpg
func (h *OperationHandler) JPGHandler(w http.ResponseWriter, r *http.Request) {
	h.singleDocument(w, r, models.OperationJPG, h.documents.ConvertToJPG)
}

// WatermarkHandler handles POST /api/watermark with "file" and "text"
func (h *OperationHandler) WatermarkHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.singleFile(w, r, models.OperationWatermark)
	if !ok {
		return
	}

	text := r.MultipartForm.Value["text"]
	req := models.WatermarkRequest{Document: doc}
	if len(text) > 0 {
		req.Text = text[0]
	}

	h.run(w, r, models.OperationWatermark, func(ctx context.Context) (*models.Result, error) {
		return h.documents.Watermark(ctx, req)
	})
}

func (h *OperationHandler) singleDocument(w http.ResponseWriter, r *http.Request, op models.Operation,
	fn func(ctx context.Context, doc models.UploadedDocument) (*models.Result, error)) {
	doc, ok := h.singleFile(w, r, op)
	if !ok {
		return
	}
	h.run(w, r, op, func(ctx context.Context) (*models.Result, error) {
		return fn(ctx, doc)
	})
}

// run executes the operation, publishes its files and writes the download links
func (h *OperationHandler) run(w http.ResponseWriter, r *http.Request, op models.Operation,
	fn func(ctx context.Context) (*models.Result, error)) {
	result, err := fn(r.Context())
	if err != nil {
		WriteOperationError(w, h.logger, err)
		return
	}

	links, err := h.artifacts.Publish(r.Context(), result)
	if err != nil {
		WriteOperationError(w, h.logger, models.NewOperationError(op, models.KindWriteFailure, "Could not store the result for download", err))
		return
	}

	WriteJSON(w, http.StatusOK, operationResponse{
		Status:    "success",
		Operation: op,
		PageCount: result.PageCount,
		Artifacts: links,
		Warnings:  result.Warnings,
	})
}

// parseForm enforces POST and the body limit, then parses the multipart form
func (h *OperationHandler) parseForm(w http.ResponseWriter, r *http.Request, op models.Operation) bool {
	if !RequireMethod(w, r, http.MethodPost) {
		return false
	}

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteKindError(w, http.StatusRequestEntityTooLarge, models.KindInvalidInput,
				fmt.Sprintf("Upload exceeds the %d MB limit", h.maxUpload>>20))
			return false
		}
		WriteOperationError(w, h.logger, models.NewOperationError(op, models.KindInvalidInput, "Expected a multipart form upload", err))
		return false
	}
	return true
}

// singleFile parses the form and reads the "file" part. A missing file yields
// an empty document so the service reports its own input error.
func (h *OperationHandler) singleFile(w http.ResponseWriter, r *http.Request, op models.Operation) (models.UploadedDocument, bool) {
	if !h.parseForm(w, r, op) {
		return models.UploadedDocument{}, false
	}

	docs, err := readFiles(r.MultipartForm, "file")
	if err != nil {
		WriteOperationError(w, h.logger, models.NewOperationError(op, models.KindInvalidInput, "Could not read the uploaded file", err))
		return models.UploadedDocument{}, false
	}
	if len(docs) == 0 {
		return models.UploadedDocument{}, true
	}
	return docs[0], true
}

// readFiles reads every part named field, in upload order
func readFiles(form *multipart.Form, field string) ([]models.UploadedDocument, error) {
	if form == nil {
		return nil, nil
	}

	headers := form.File[field]
	docs := make([]models.UploadedDocument, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		docs = append(docs, models.UploadedDocument{Name: fh.Filename, Data: data})
	}
	return docs, nil
}

// EncodeDataURI returns data as an inline data: URI
func EncodeDataURI(contentType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(contentType) + 13 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(contentType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
