package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/interfaces"
)

// ArtifactHandler serves published results as single-use downloads
type ArtifactHandler struct {
	artifacts interfaces.ArtifactService
	logger    arbor.ILogger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(artifacts interfaces.ArtifactService, logger arbor.ILogger) *ArtifactHandler {
	return &ArtifactHandler{
		artifacts: artifacts,
		logger:    logger,
	}
}

// DownloadHandler handles GET /api/artifacts/{id}. The artifact is removed
// once it has been handed out.
func (h *ArtifactHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/artifacts/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Artifact not found")
		return
	}

	artifact, err := h.artifacts.Take(r.Context(), id)
	if errors.Is(err, interfaces.ErrArtifactNotFound) {
		WriteError(w, http.StatusNotFound, "Artifact not found or already downloaded")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("artifact_id", id).Msg("Failed to load artifact")
		WriteError(w, http.StatusInternalServerError, "Failed to load artifact")
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Name}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(artifact.Data); err != nil {
		h.logger.Warn().Err(err).Str("artifact_id", id).Msg("Artifact download interrupted")
		return
	}

	h.logger.Debug().
		Str("artifact_id", id).
		Str("name", artifact.Name).
		Int("size", len(artifact.Data)).
		Msg("Artifact downloaded")
}
