package pdf

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ternarybob/lovedocu/internal/models"
	"golang.org/x/image/draw"
)

// ConvertToJPG rasterizes every page into its own JPEG artifact, named
// page_N.jpg.
func (s *Service) ConvertToJPG(ctx context.Context, doc models.UploadedDocument) (result *models.Result, err error) {
	const op = models.OperationJPG
	const failure = "An error occurred while converting PDF to JPG"

	if doc.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to convert.")
	}
	if _, err := checkReadable(op, doc, 0, failure); err != nil {
		return nil, err
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer func() { s.release(ws, result) }()

	options := &jpeg.Options{Quality: s.render.JPGQuality}

	var files []models.ArtifactFile
	err = s.renderer.RenderPages(ctx, doc.Data, s.render.JPGDPI, func(page int, img image.Image) error {
		file, err := writeOutput(ws, fmt.Sprintf("page_%d.jpg", page), models.ContentTypeJPEG, func(w io.Writer) error {
			return jpeg.Encode(w, img, options)
		})
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	result = &models.Result{
		Operation: op,
		Files:     files,
	}
	s.logDone(op, result)
	return result, nil
}

// Previews renders one PNG thumbnail per page for split selection. Each
// thumbnail passes through the request workspace as page_N.png and is removed
// with it, including on early return.
func (s *Service) Previews(ctx context.Context, doc models.UploadedDocument) ([]models.PagePreview, error) {
	const op = models.OperationPreview
	const failure = "An error occurred while rendering page previews"

	if doc.Empty() {
		return nil, models.InputError(op, "Please upload a PDF file to split.")
	}
	if _, err := checkReadable(op, doc, 0, failure); err != nil {
		return nil, err
	}

	ws, err := s.acquire(op)
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	var previews []models.PagePreview
	err = s.renderer.RenderPages(ctx, doc.Data, s.render.PreviewDPI, func(page int, img image.Image) error {
		thumb := thumbnail(img, s.render.PreviewMaxSize)

		file, err := writeOutput(ws, fmt.Sprintf("page_%d.png", page), models.ContentTypePNG, func(w io.Writer) error {
			return png.Encode(w, thumb)
		})
		if err != nil {
			return err
		}

		bounds := thumb.Bounds()
		previews = append(previews, models.PagePreview{
			Label:  models.PageLabel(page),
			Page:   page,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			PNG:    file.Data,
		})
		return nil
	})
	if err != nil {
		return nil, failed(op, failure, err)
	}

	s.logger.Debug().Int("pages", len(previews)).Msg("Rendered page previews")

	return previews, nil
}

// thumbnail scales img so its longest edge is at most maxSize pixels
func thumbnail(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	tw := max(1, int(float64(w)*scale))
	th := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
