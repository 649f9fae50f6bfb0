package artifacts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// memoryStorage is an in-memory ArtifactStorage
type memoryStorage struct {
	mu        sync.Mutex
	items     map[string]*models.Artifact
	failAfter int // Save fails once this many artifacts are stored (0 = never)
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{items: make(map[string]*models.Artifact)}
}

func (m *memoryStorage) Save(ctx context.Context, a *models.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.items) >= m.failAfter {
		return errors.New("disk full")
	}
	a.Size = len(a.Data)
	m.items[a.ID] = a
	return nil
}

func (m *memoryStorage) Take(ctx context.Context, id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrArtifactNotFound
	}
	delete(m.items, id)
	return a, nil
}

func (m *memoryStorage) Peek(ctx context.Context, id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrArtifactNotFound
	}
	meta := *a
	meta.Data = nil
	return &meta, nil
}

func (m *memoryStorage) DeleteExpired(ctx context.Context) (int, error) { return 0, nil }

func (m *memoryStorage) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

func jpgResult() *models.Result {
	return &models.Result{
		Operation: models.OperationJPG,
		Files: []models.ArtifactFile{
			{Name: "page_1.jpg", ContentType: models.ContentTypeJPEG, Data: []byte{0xff, 0xd8, 1}},
			{Name: "page_2.jpg", ContentType: models.ContentTypeJPEG, Data: []byte{0xff, 0xd8, 2}},
			{Name: "page_3.jpg", ContentType: models.ContentTypeJPEG, Data: []byte{0xff, 0xd8, 3}},
		},
	}
}

func TestPublish_OneLinkPerFileInOrder(t *testing.T) {
	storage := newMemoryStorage()
	service := NewService(storage, 10*time.Minute, arbor.NewLogger())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	links, err := service.Publish(context.Background(), jpgResult())
	require.NoError(t, err)
	require.Len(t, links, 3)

	for i, link := range links {
		assert.Equal(t, jpgResult().Files[i].Name, link.Name)
		assert.True(t, strings.HasPrefix(link.ID, "art_"))
		assert.Equal(t, DownloadPath+link.ID, link.URL)
		assert.Equal(t, 3, link.Size)
		assert.Equal(t, fixed.Add(10*time.Minute), link.ExpiresAt)
	}

	got, err := service.Take(context.Background(), links[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 2}, got.Data)

	_, err = service.Take(context.Background(), links[1].ID)
	assert.ErrorIs(t, err, interfaces.ErrArtifactNotFound)
}

func TestPublish_RollsBackOnFailure(t *testing.T) {
	storage := newMemoryStorage()
	storage.failAfter = 2
	service := NewService(storage, time.Minute, arbor.NewLogger())

	links, err := service.Publish(context.Background(), jpgResult())
	assert.Error(t, err)
	assert.Nil(t, links)

	count, _ := storage.Count(context.Background())
	assert.Equal(t, 0, count)
}

func TestPublish_NothingToPublish(t *testing.T) {
	service := NewService(newMemoryStorage(), time.Minute, arbor.NewLogger())

	_, err := service.Publish(context.Background(), &models.Result{Operation: models.OperationMerge})
	assert.Error(t, err)
}

func TestStat_DoesNotConsume(t *testing.T) {
	service := NewService(newMemoryStorage(), time.Minute, arbor.NewLogger())
	links, err := service.Publish(context.Background(), jpgResult())
	require.NoError(t, err)

	meta, err := service.Stat(context.Background(), links[0].ID)
	require.NoError(t, err)
	assert.Nil(t, meta.Data)
	assert.Equal(t, "page_1.jpg", meta.Name)

	_, err = service.Take(context.Background(), links[0].ID)
	assert.NoError(t, err)
}
