package raster

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
)

// DefaultAspectRatio is used when no image can be read.
const DefaultAspectRatio = 1.0

// Size returns the pixel dimensions of the image at path.
func Size(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// AspectRatio returns width/height of the image at path.
func AspectRatio(path string) (float64, error) {
	w, h, err := Size(path)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, fmt.Errorf("image %s has zero height", path)
	}
	return float64(w) / float64(h), nil
}

// FirstAspectRatio returns the aspect ratio of the first readable image in
// paths, or DefaultAspectRatio when none can be read.
func FirstAspectRatio(paths []string) float64 {
	for _, p := range paths {
		if ratio, err := AspectRatio(p); err == nil {
			return ratio
		}
	}
	return DefaultAspectRatio
}
