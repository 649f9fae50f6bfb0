package artifacts

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// DownloadPath is the route prefix artifacts are served from
const DownloadPath = "/api/artifacts/"

// Service implements interfaces.ArtifactService
type Service struct {
	storage interfaces.ArtifactStorage
	ttl     time.Duration
	logger  arbor.ILogger
	now     func() time.Time
}

var _ interfaces.ArtifactService = (*Service)(nil)

// NewService creates a new artifact service
func NewService(storage interfaces.ArtifactStorage, ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish stores every file of result and returns one download link per file,
// in the order the operation produced them. Nothing is left behind on failure.
func (s *Service) Publish(ctx context.Context, result *models.Result) ([]models.ArtifactLink, error) {
	if result == nil || len(result.Files) == 0 {
		return nil, fmt.Errorf("no files to publish")
	}

	now := s.now()
	links := make([]models.ArtifactLink, 0, len(result.Files))

	for _, file := range result.Files {
		artifact := &models.Artifact{
			ID:          common.NewArtifactID(),
			Operation:   result.Operation,
			Name:        file.Name,
			ContentType: file.ContentType,
			Data:        file.Data,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.ttl),
		}

		if err := s.storage.Save(ctx, artifact); err != nil {
			s.discard(ctx, links)
			return nil, fmt.Errorf("failed to publish %s: %w", file.Name, err)
		}

		links = append(links, models.ArtifactLink{
			ID:          artifact.ID,
			Name:        artifact.Name,
			ContentType: artifact.ContentType,
			Size:        artifact.Size,
			URL:         DownloadPath + artifact.ID,
			ExpiresAt:   artifact.ExpiresAt,
		})
	}

	s.logger.Debug().
		Str("operation", string(result.Operation)).
		Int("artifacts", len(links)).
		Str("ttl", s.ttl.String()).
		Msg("Published artifacts")

	return links, nil
}

// Take returns the artifact for download and removes it
func (s *Service) Take(ctx context.Context, id string) (*models.Artifact, error) {
	return s.storage.Take(ctx, id)
}

// Stat returns artifact metadata without consuming it
func (s *Service) Stat(ctx context.Context, id string) (*models.Artifact, error) {
	return s.storage.Peek(ctx, id)
}

func (s *Service) discard(ctx context.Context, links []models.ArtifactLink) {
	for _, link := range links {
		if _, err := s.storage.Take(ctx, link.ID); err != nil {
			s.logger.Warn().Err(err).Str("artifact_id", link.ID).Msg("Failed to discard partially published artifact")
		}
	}
}
