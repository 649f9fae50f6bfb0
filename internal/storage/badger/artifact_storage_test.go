package badger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

func newTestArtifactStorage(t *testing.T) (*ArtifactStorage, *BadgerDB) {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewArtifactStorage(db, logger).(*ArtifactStorage), db
}

func newArtifact(id string, expiresAt time.Time) *models.Artifact {
	return &models.Artifact{
		ID:          id,
		Operation:   models.OperationMerge,
		Name:        "merged.pdf",
		ContentType: models.ContentTypePDF,
		Data:        []byte("%PDF-1.4 test"),
		ExpiresAt:   expiresAt,
	}
}

func TestArtifactStorage_TakeConsumesOnce(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, newArtifact("art_1", time.Now().Add(time.Hour))))

	got, err := storage.Take(ctx, "art_1")
	require.NoError(t, err)
	assert.Equal(t, "merged.pdf", got.Name)
	assert.Equal(t, []byte("%PDF-1.4 test"), got.Data)
	assert.Equal(t, len(got.Data), got.Size)

	_, err = storage.Take(ctx, "art_1")
	assert.ErrorIs(t, err, interfaces.ErrArtifactNotFound)
}

func TestArtifactStorage_SaveRejectsDuplicateID(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, newArtifact("art_dup", time.Now().Add(time.Hour))))
	assert.Error(t, storage.Save(ctx, newArtifact("art_dup", time.Now().Add(time.Hour))))
}

func TestArtifactStorage_TakeExpired(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, newArtifact("art_old", time.Now().Add(-time.Minute))))

	_, err := storage.Take(ctx, "art_old")
	assert.ErrorIs(t, err, interfaces.ErrArtifactNotFound)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "expired artifact should be removed when taken")
}

func TestArtifactStorage_PeekDoesNotConsume(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, newArtifact("art_peek", time.Now().Add(time.Hour))))

	meta, err := storage.Peek(ctx, "art_peek")
	require.NoError(t, err)
	assert.Nil(t, meta.Data)
	assert.Equal(t, models.ContentTypePDF, meta.ContentType)

	_, err = storage.Take(ctx, "art_peek")
	assert.NoError(t, err)
}

func TestArtifactStorage_DeleteExpired(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()
	now := time.Now()
	storage.now = func() time.Time { return now }

	require.NoError(t, storage.Save(ctx, newArtifact("art_a", now.Add(-2*time.Minute))))
	require.NoError(t, storage.Save(ctx, newArtifact("art_b", now.Add(-time.Second))))
	require.NoError(t, storage.Save(ctx, newArtifact("art_c", now.Add(time.Minute))))

	deleted, err := storage.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.Take(ctx, "art_c")
	assert.NoError(t, err)
}

func TestArtifactStorage_ConcurrentTake(t *testing.T) {
	storage, _ := newTestArtifactStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, newArtifact("art_race", time.Now().Add(time.Hour))))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := storage.Take(ctx, "art_race"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestBadgerDB_ResetOnStartup(t *testing.T) {
	logger := arbor.NewLogger()
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, NewArtifactStorage(db, logger).Save(ctx, newArtifact("art_keep", time.Now().Add(time.Hour))))
	require.NoError(t, db.Close())

	db, err = NewBadgerDB(logger, &common.BadgerConfig{Path: dir, ResetOnStartup: true})
	require.NoError(t, err)
	defer db.Close()

	count, err := NewArtifactStorage(db, logger).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, db.RunGC())
}
