package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page and embedded assets
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html"))
	mux.Handle("/static/", s.app.PageHandler.StaticFileHandler())

	// API routes - Document operations (multipart uploads, rate limited)
	ops := s.app.OperationHandler
	mux.HandleFunc("/api/merge", s.rateLimited(ops.MergeHandler))
	mux.HandleFunc("/api/split/preview", s.rateLimited(ops.SplitPreviewHandler))
	mux.HandleFunc("/api/split", s.rateLimited(ops.SplitHandler))
	mux.HandleFunc("/api/compress", s.rateLimited(ops.CompressHandler))
	mux.HandleFunc("/api/convert/word", s.rateLimited(ops.WordHandler))
	mux.HandleFunc("/api/convert/excel", s.rateLimited(ops.ExcelHandler))
	mux.HandleFunc("/api/convert/jpg", s.rateLimited(ops.JPGHandler))
	mux.HandleFunc("/api/watermark", s.rateLimited(ops.WatermarkHandler))

	// API routes - Downloads (single use)
	mux.HandleFunc("/api/artifacts/", s.app.ArtifactHandler.DownloadHandler) // GET /{id}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// MCP server (streamable HTTP)
	mux.Handle("/mcp", s.app.MCPHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
