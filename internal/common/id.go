package common

import (
	"github.com/google/uuid"
)

// NewArtifactID generates a unique artifact ID with the "art_" prefix
// Format: art_<uuid>
func NewArtifactID() string {
	return "art_" + uuid.New().String()
}

// NewWorkspaceID generates a unique suffix for a request workspace directory
func NewWorkspaceID() string {
	return uuid.New().String()
}
