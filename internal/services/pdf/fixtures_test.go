package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/models"
	"github.com/ternarybob/lovedocu/internal/services/workspace"
)

// makePDF builds a PDF with one page per text, each page carrying its text
func makePDF(t *testing.T, texts ...string) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 24)
	for _, text := range texts {
		doc.AddPage()
		doc.Text(20, 40, text)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func upload(name string, data []byte) models.UploadedDocument {
	return models.UploadedDocument{Name: name, Data: data}
}

// newTestService returns a service whose workspaces live under a fresh root
func newTestService(t *testing.T, opts ...Option) (*Service, string) {
	t.Helper()

	logger := arbor.NewLogger()
	root := t.TempDir()
	workspaces, err := workspace.NewManager(root, logger)
	require.NoError(t, err)

	render := common.NewDefaultConfig().Render
	return NewService(workspaces, render, logger, opts...), root
}

// requireEmptyRoot asserts no workspace survived the operation
func requireEmptyRoot(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries, "workspace directories left behind")
}

func pageTexts(t *testing.T, data []byte) []string {
	t.Helper()
	pages, err := NewExtractor(arbor.NewLogger()).ExtractPages(context.Background(), data)
	require.NoError(t, err)
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return texts
}

// fakeRenderer produces a solid image per page without MuPDF
type fakeRenderer struct {
	pages  int
	width  int
	height int
	failAt int // 1-based page that fails to render (0 = never)
}

func (f *fakeRenderer) PageCount(data []byte) (int, error) {
	return f.pages, nil
}

func (f *fakeRenderer) RenderPages(ctx context.Context, data []byte, dpi float64, fn func(page int, img image.Image) error) error {
	for i := 1; i <= f.pages; i++ {
		if i == f.failAt {
			return errRender
		}
		img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
		for y := 0; y < f.height; y++ {
			for x := 0; x < f.width; x++ {
				img.Set(x, y, color.RGBA{R: uint8(i * 40), A: 255})
			}
		}
		if err := fn(i, img); err != nil {
			return err
		}
	}
	return nil
}

type renderError struct{}

func (renderError) Error() string { return "render failed" }

var errRender = renderError{}
