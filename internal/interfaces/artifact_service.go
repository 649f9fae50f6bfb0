package interfaces

import (
	"context"

	"github.com/ternarybob/lovedocu/internal/models"
)

// ArtifactService publishes operation results as single-use downloads
type ArtifactService interface {
	Publish(ctx context.Context, result *models.Result) ([]models.ArtifactLink, error)
	Take(ctx context.Context, id string) (*models.Artifact, error)
	Stat(ctx context.Context, id string) (*models.Artifact, error)
}
