package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/ternarybob/lovedocu/internal/pages"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// modeView is one sidebar entry and its panel
type modeView struct {
	Value    string
	Title    string
	Endpoint string
	Multiple bool
	Help     template.HTML
}

type PageHandler struct {
	logger      arbor.ILogger
	templates   *template.Template
	modes       []modeView
	maxUploadMB int
}

// NewPageHandler parses the embedded templates and renders the help panels once
func NewPageHandler(logger arbor.ILogger, maxUploadMB int) *PageHandler {
	templates := template.Must(template.ParseFS(pages.Templates, "templates/*.html"))

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables in the help text
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	modes := make([]modeView, 0, len(models.Operations()))
	for _, op := range models.Operations() {
		view := modeView{
			Value:    string(op),
			Title:    op.Title(),
			Endpoint: EndpointFor(op),
			Multiple: op == models.OperationMerge,
		}

		if source := pages.Help(string(op)); source != nil {
			var buf bytes.Buffer
			if err := md.Convert(source, &buf); err != nil {
				logger.Warn().Err(err).Str("operation", string(op)).Msg("Failed to render help text")
			} else {
				view.Help = template.HTML(buf.String())
			}
		}

		modes = append(modes, view)
	}

	return &PageHandler{
		logger:      logger,
		templates:   templates,
		modes:       modes,
		maxUploadMB: maxUploadMB,
	}
}

// EndpointFor returns the API route that runs op
func EndpointFor(op models.Operation) string {
	switch op {
	case models.OperationWord, models.OperationExcel, models.OperationJPG:
		return "/api/convert/" + string(op)
	case models.OperationPreview:
		return "/api/split/preview"
	}
	return "/api/" + string(op)
}

// ServePage creates a handler function for serving a specific page template
func (h *PageHandler) ServePage(templateName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		data := map[string]interface{}{
			"Operations":  h.modes,
			"Version":     common.GetVersion(),
			"MaxUploadMB": h.maxUploadMB,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
			h.logger.Error().
				Err(err).
				Str("template", templateName).
				Msg("Failed to render page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// StaticFileHandler serves embedded static files (CSS, JS)
func (h *PageHandler) StaticFileHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(pages.Static())))
}
