package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// Thumbnailer derives bounded JPEG previews from source images.
type Thumbnailer struct {
	MaxPx   int // bounding box for the larger dimension
	Quality int // JPEG quality
}

func NewThumbnailer(maxPx, quality int) *Thumbnailer {
	return &Thumbnailer{MaxPx: maxPx, Quality: quality}
}

// Generate decodes a source image, scales it down so the larger dimension
// fits within MaxPx (never upscaling), flattens alpha onto white and
// re-encodes as JPEG. Any decode or encode problem is returned as an error;
// the caller decides whether the item lives without a preview.
func (t *Thumbnailer) Generate(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > t.MaxPx || bounds.Dy() > t.MaxPx {
		img = imaging.Fit(img, t.MaxPx, t.MaxPx, imaging.Lanczos)
	}

	// Palette and alpha flatten onto a white background, matching what a
	// browser shows for transparent regions.
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flat, &jpeg.Options{Quality: t.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
