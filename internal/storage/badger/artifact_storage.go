package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ArtifactStorage implements the ArtifactStorage interface for Badger
type ArtifactStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
	now    func() time.Time
}

// NewArtifactStorage creates a new ArtifactStorage instance
func NewArtifactStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArtifactStorage {
	return &ArtifactStorage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Save stores a new artifact; an existing ID is an error
func (s *ArtifactStorage) Save(ctx context.Context, artifact *models.Artifact) error {
	if artifact.ID == "" {
		return fmt.Errorf("artifact ID is required")
	}
	artifact.Size = len(artifact.Data)
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = s.now()
	}

	if err := s.db.Store().Insert(artifact.ID, artifact); err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", artifact.ID, err)
	}

	s.logger.Debug().
		Str("artifact_id", artifact.ID).
		Str("name", artifact.Name).
		Int("size", artifact.Size).
		Msg("Artifact stored")
	return nil
}

// Take reads and deletes the artifact in one transaction so that two
// concurrent downloads cannot both succeed
func (s *ArtifactStorage) Take(ctx context.Context, id string) (*models.Artifact, error) {
	var artifact models.Artifact
	now := s.now()
	expired := false

	err := s.db.Store().Badger().Update(func(tx *badgerdb.Txn) error {
		if err := s.db.Store().TxGet(tx, id, &artifact); err != nil {
			return err
		}
		expired = artifact.Expired(now)
		return s.db.Store().TxDelete(tx, id, &models.Artifact{})
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take artifact %s: %w", id, err)
	}
	if expired {
		s.logger.Debug().Str("artifact_id", id).Msg("Expired artifact discarded on download")
		return nil, interfaces.ErrArtifactNotFound
	}

	return &artifact, nil
}

// Peek returns artifact metadata without consuming it
func (s *ArtifactStorage) Peek(ctx context.Context, id string) (*models.Artifact, error) {
	var artifact models.Artifact
	err := s.db.Store().Get(id, &artifact)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", id, err)
	}
	if artifact.Expired(s.now()) {
		return nil, interfaces.ErrArtifactNotFound
	}
	artifact.Data = nil
	return &artifact, nil
}

// DeleteExpired removes every artifact past its expiry
func (s *ArtifactStorage) DeleteExpired(ctx context.Context) (int, error) {
	var expired []models.Artifact
	query := badgerhold.Where("ExpiresAt").Lt(s.now()).Index("ExpiresAt")
	if err := s.db.Store().Find(&expired, query); err != nil {
		return 0, fmt.Errorf("failed to find expired artifacts: %w", err)
	}

	deleted := 0
	for _, artifact := range expired {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		err := s.db.Store().Delete(artifact.ID, &models.Artifact{})
		if errors.Is(err, badgerhold.ErrNotFound) {
			// Downloaded between the query and the delete
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to delete artifact %s: %w", artifact.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Debug().Int("count", deleted).Msg("Deleted expired artifacts")
	}
	return deleted, nil
}

// Count returns the number of stored artifacts
func (s *ArtifactStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Artifact{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count artifacts: %w", err)
	}
	return int(count), nil
}
