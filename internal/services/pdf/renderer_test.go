package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lovedocu/internal/models"
)

// darkPixels counts pixels per page whose gray level is below half intensity
func darkPixels(t *testing.T, data []byte) []int {
	t.Helper()

	var counts []int
	err := NewRenderer().RenderPages(context.Background(), data, 72, func(page int, img image.Image) error {
		n := 0
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 128 {
					n++
				}
			}
		}
		counts = append(counts, n)
		return nil
	})
	require.NoError(t, err)
	return counts
}

func TestRenderer_PageCount(t *testing.T) {
	count, err := NewRenderer().PageCount(makePDF(t, "a", "b", "c", "d"))
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	_, err = NewRenderer().PageCount([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestConvertToJPG_MuPDF(t *testing.T) {
	svc, root := newTestService(t)

	result, err := svc.ConvertToJPG(context.Background(), upload("in.pdf", makePDF(t, "one", "two", "three")))
	require.NoError(t, err)
	require.Len(t, result.Files, 3, "one image per source page")

	for i, f := range result.Files {
		assert.Equal(t, []string{"page_1.jpg", "page_2.jpg", "page_3.jpg"}[i], f.Name)
		img, err := jpeg.Decode(bytes.NewReader(f.Data))
		require.NoError(t, err)
		// A4 portrait stays taller than wide
		assert.Greater(t, img.Bounds().Dy(), img.Bounds().Dx())
	}

	requireEmptyRoot(t, root)
}

func TestPreviews_MuPDF(t *testing.T) {
	svc, root := newTestService(t)

	previews, err := svc.Previews(context.Background(), upload("in.pdf", makePDF(t, "one", "two")))
	require.NoError(t, err)
	require.Len(t, previews, 2)

	for i, p := range previews {
		assert.Equal(t, models.PageLabel(i+1), p.Label)
		assert.InDelta(t, 240, p.Height, 1, "longest edge is capped")
		assert.Less(t, p.Width, p.Height)

		img, err := png.Decode(bytes.NewReader(p.PNG))
		require.NoError(t, err)
		assert.Equal(t, p.Width, img.Bounds().Dx())
	}

	requireEmptyRoot(t, root)
}

func TestWatermark_InksEveryPage(t *testing.T) {
	svc, root := newTestService(t)
	input := makePDF(t, "one", "two", "three")

	result, err := svc.Watermark(context.Background(), models.WatermarkRequest{
		Document: upload("in.pdf", input),
		Text:     "DRAFT",
	})
	require.NoError(t, err)

	before := darkPixels(t, input)
	after := darkPixels(t, result.Files[0].Data)
	require.Len(t, after, len(before))

	for i := range before {
		assert.Greater(t, after[i], before[i], "page %d carries the overlay", i+1)
	}

	requireEmptyRoot(t, root)
}
