package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/lovedocu/internal/models"
)

// ErrArtifactNotFound is returned when an artifact does not exist, was already
// downloaded, or has expired
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStorage persists published artifacts until their single download
type ArtifactStorage interface {
	// Save stores a new artifact
	Save(ctx context.Context, artifact *models.Artifact) error

	// Take returns the artifact and deletes it in the same transaction.
	// Expired artifacts are deleted and reported as ErrArtifactNotFound.
	Take(ctx context.Context, id string) (*models.Artifact, error)

	// Peek returns artifact metadata without consuming it; Data is left empty
	Peek(ctx context.Context, id string) (*models.Artifact, error)

	// DeleteExpired removes every artifact whose expiry is before now and
	// returns how many were removed
	DeleteExpired(ctx context.Context) (int, error)

	// Count returns the number of stored artifacts
	Count(ctx context.Context) (int, error)
}

// StorageManager owns the database and the storages built on it
type StorageManager interface {
	ArtifactStorage() ArtifactStorage

	// RunGC reclaims space from the value log
	RunGC() error

	Close() error
}
