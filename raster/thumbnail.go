package raster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultDPI is the resolution thumbnails are rendered at.
const DefaultDPI = 150

const cmPerInch = 2.54

// Thumbnailer writes PNG copies of images sized for a physical cell height.
type Thumbnailer struct {
	DPI int
}

// NewThumbnailer returns a Thumbnailer rendering at dpi, or DefaultDPI when
// dpi is not positive.
func NewThumbnailer(dpi int) *Thumbnailer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Thumbnailer{DPI: dpi}
}

// TargetSize returns the pixel size an image of the given dimensions gets
// when shown heightCm tall.
func (t *Thumbnailer) TargetSize(width, height int, heightCm float64) (int, int) {
	targetH := int(heightCm / cmPerInch * float64(t.DPI))
	targetW := int(float64(targetH) * float64(width) / float64(height))
	return targetW, targetH
}

// Thumbnail writes src to dst as PNG, downscaled with a Lanczos filter to
// heightCm at the thumbnailer's DPI. Images already narrower than the target
// are converted without resizing. It returns the written pixel size.
func (t *Thumbnailer) Thumbnail(src, dst string, heightCm float64) (width, height int, err error) {
	img, err := imaging.Open(src)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", src, err)
	}

	b := img.Bounds()
	if b.Dy() == 0 {
		return 0, 0, fmt.Errorf("image %s has zero height", src)
	}

	targetW, targetH := t.TargetSize(b.Dx(), b.Dy(), heightCm)
	if b.Dx() > targetW && targetW > 0 && targetH > 0 {
		img = imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return 0, 0, fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := imaging.Save(img, dst); err != nil {
		return 0, 0, fmt.Errorf("saving %s: %w", dst, err)
	}

	b = img.Bounds()
	return b.Dx(), b.Dy(), nil
}
