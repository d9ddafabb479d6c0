package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tsawler/radardoc/format"
)

// PostScript renders at 72 points per inch.
const postScriptDPI = 72

// ErrNoGhostscript is returned when no Ghostscript executable can be found.
var ErrNoGhostscript = errors.New("ghostscript executable not found")

// EPSConverter renders an EPS file to a PNG file. Scale multiplies the
// 72 dpi PostScript resolution.
type EPSConverter interface {
	ConvertEPS(ctx context.Context, src, dst string, scale float64) error
}

// Ghostscript converts EPS files by running the gs command.
type Ghostscript struct {
	// Binary is the executable to run. When empty, the platform's usual
	// Ghostscript names are looked up on PATH.
	Binary string
}

func (g *Ghostscript) binary() (string, error) {
	candidates := []string{"gs"}
	if runtime.GOOS == "windows" {
		candidates = []string{"gswin64c", "gswin32c", "gs"}
	}
	if g.Binary != "" {
		candidates = []string{g.Binary}
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoGhostscript
}

// ConvertEPS renders src to the PNG file dst at 72*scale dpi, cropped to
// the EPS bounding box.
func (g *Ghostscript) ConvertEPS(ctx context.Context, src, dst string, scale float64) error {
	bin, err := g.binary()
	if err != nil {
		return err
	}
	if scale <= 0 {
		scale = 1
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	dpi := strconv.FormatFloat(postScriptDPI*scale, 'f', -1, 64)
	cmd := exec.CommandContext(ctx, bin,
		"-q", "-dSAFER", "-dBATCH", "-dNOPAUSE", "-dEPSCrop",
		"-sDEVICE=png16m",
		"-dTextAlphaBits=4", "-dGraphicsAlphaBits=4",
		"-r"+dpi,
		"-sOutputFile="+dst,
		src,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ghostscript failed on %s: %w: %s", src, err, strings.TrimSpace(string(out)))
	}

	if info, err := os.Stat(dst); err != nil || info.Size() == 0 {
		return fmt.Errorf("ghostscript produced no image for %s", src)
	}
	return nil
}

// ToPNG writes src to dst as PNG. EPS input goes through conv; raster input
// is re-encoded directly.
func ToPNG(ctx context.Context, conv EPSConverter, src, dst string, scale float64) error {
	switch f := format.Detect(src); {
	case f == format.EPS:
		if conv == nil {
			return fmt.Errorf("no EPS converter for %s", src)
		}
		return conv.ConvertEPS(ctx, src, dst, scale)
	case f.IsRaster():
		img, err := imaging.Open(src)
		if err != nil {
			return fmt.Errorf("opening %s: %w", src, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
		}
		return imaging.Save(img, dst)
	default:
		return fmt.Errorf("unsupported plot format %s", filepath.Ext(src))
	}
}
