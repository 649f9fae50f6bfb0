package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// mockDocumentService implements interfaces.DocumentService for testing
type mockDocumentService struct {
	mergeFunc     func(ctx context.Context, req models.MergeRequest) (*models.Result, error)
	splitFunc     func(ctx context.Context, req models.SplitRequest) (*models.Result, error)
	previewsFunc  func(ctx context.Context, doc models.UploadedDocument) ([]models.PagePreview, error)
	singleFunc    func(op models.Operation, doc models.UploadedDocument) (*models.Result, error)
	watermarkFunc func(ctx context.Context, req models.WatermarkRequest) (*models.Result, error)
	pageCountFunc func(ctx context.Context, doc models.UploadedDocument) (int, error)
	extractFunc   func(ctx context.Context, doc models.UploadedDocument) ([]models.PageText, error)
}

func (m *mockDocumentService) Merge(ctx context.Context, req models.MergeRequest) (*models.Result, error) {
	return m.mergeFunc(ctx, req)
}

func (m *mockDocumentService) Split(ctx context.Context, req models.SplitRequest) (*models.Result, error) {
	return m.splitFunc(ctx, req)
}

func (m *mockDocumentService) Previews(ctx context.Context, doc models.UploadedDocument) ([]models.PagePreview, error) {
	return m.previewsFunc(ctx, doc)
}

func (m *mockDocumentService) Compress(ctx context.Context, doc models.UploadedDocument) (*models.Result, error) {
	return m.singleFunc(models.OperationCompress, doc)
}

func (m *mockDocumentService) ConvertToWord(ctx context.Context, doc models.UploadedDocument) (*models.Result, error) {
	return m.singleFunc(models.OperationWord, doc)
}

func (m *mockDocumentService) ConvertToExcel(ctx context.Context, doc models.UploadedDocument) (*models.Result, error) {
	return m.singleFunc(models.OperationExcel, doc)
}

func (m *mockDocumentService) ConvertToJPG(ctx context.Context, doc models.UploadedDocument) (*models.Result, error) {
	return m.singleFunc(models.OperationJPG, doc)
}

func (m *mockDocumentService) Watermark(ctx context.Context, req models.WatermarkRequest) (*models.Result, error) {
	return m.watermarkFunc(ctx, req)
}

func (m *mockDocumentService) PageCount(ctx context.Context, doc models.UploadedDocument) (int, error) {
	return m.pageCountFunc(ctx, doc)
}

func (m *mockDocumentService) ExtractText(ctx context.Context, doc models.UploadedDocument) ([]models.PageText, error) {
	return m.extractFunc(ctx, doc)
}

// memoryArtifacts implements interfaces.ArtifactService in memory
type memoryArtifacts struct {
	mu    sync.Mutex
	items map[string]*models.Artifact
	next  int
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{items: make(map[string]*models.Artifact)}
}

func (m *memoryArtifacts) Publish(ctx context.Context, result *models.Result) ([]models.ArtifactLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	links := make([]models.ArtifactLink, 0, len(result.Files))
	for _, f := range result.Files {
		m.next++
		id := "art_" + string(rune('a'+m.next-1))
		m.items[id] = &models.Artifact{
			ID:          id,
			Operation:   result.Operation,
			Name:        f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
			Size:        len(f.Data),
			ExpiresAt:   time.Now().Add(time.Minute),
		}
		links = append(links, models.ArtifactLink{
			ID:          id,
			Name:        f.Name,
			ContentType: f.ContentType,
			Size:        len(f.Data),
			URL:         "/api/artifacts/" + id,
		})
	}
	return links, nil
}

func (m *memoryArtifacts) Take(ctx context.Context, id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrArtifactNotFound
	}
	delete(m.items, id)
	return a, nil
}

func (m *memoryArtifacts) Stat(ctx context.Context, id string) (*models.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, interfaces.ErrArtifactNotFound
	}
	return a, nil
}

func (m *memoryArtifacts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
