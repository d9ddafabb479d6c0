package raster

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func solid(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) string {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(path) {
	case ".bmp":
		require.NoError(t, bmp.Encode(f, img))
	case ".tif":
		require.NoError(t, tiff.Encode(f, img, nil))
	default:
		require.NoError(t, png.Encode(f, img))
	}
	return path
}

func TestAspectRatio(t *testing.T) {
	dir := t.TempDir()
	b := writeImage(t, filepath.Join(dir, "a.tflt.filt.de.bmp"), solid(300, 200))
	g := writeImage(t, filepath.Join(dir, "a.tflt.filt.de.geo.tif"), solid(100, 200))

	ratio, err := AspectRatio(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, ratio, 1e-9)

	ratio, err = AspectRatio(g)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ratio, 1e-9)

	_, err = AspectRatio(filepath.Join(dir, "missing.bmp"))
	assert.Error(t, err)
}

func TestFirstAspectRatio(t *testing.T) {
	dir := t.TempDir()
	b := writeImage(t, filepath.Join(dir, "b.bmp"), solid(40, 10))

	assert.InDelta(t, 4.0, FirstAspectRatio([]string{filepath.Join(dir, "nope.bmp"), b}), 1e-9)
	assert.Equal(t, DefaultAspectRatio, FirstAspectRatio(nil))
	assert.Equal(t, DefaultAspectRatio, FirstAspectRatio([]string{filepath.Join(dir, "nope.bmp")}))
}

func TestTargetSize(t *testing.T) {
	th := NewThumbnailer(0)
	assert.Equal(t, DefaultDPI, th.DPI)

	w, h := th.TargetSize(400, 200, 1)
	assert.Equal(t, 59, h)
	assert.Equal(t, 118, w)

	w, h = th.TargetSize(100, 100, 2.54)
	assert.Equal(t, 150, h)
	assert.Equal(t, 150, w)
}

func TestThumbnail_Downscales(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, filepath.Join(dir, "big.bmp"), solid(400, 200))
	dst := filepath.Join(dir, "tmp", "converted_pngs", "big.png")

	w, h, err := NewThumbnailer(150).Thumbnail(src, dst, 1)
	require.NoError(t, err)
	assert.Equal(t, 118, w)
	assert.Equal(t, 59, h)

	gotW, gotH, err := Size(dst)
	require.NoError(t, err)
	assert.Equal(t, 118, gotW)
	assert.Equal(t, 59, gotH)
}

func TestThumbnail_NeverUpscales(t *testing.T) {
	dir := t.TempDir()
	src := writeImage(t, filepath.Join(dir, "small.tif"), solid(50, 25))
	dst := filepath.Join(dir, "small.png")

	w, h, err := NewThumbnailer(150).Thumbnail(src, dst, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, w)
	assert.Equal(t, 25, h)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestThumbnail_MissingSource(t *testing.T) {
	_, _, err := NewThumbnailer(150).Thumbnail(filepath.Join(t.TempDir(), "x.bmp"), filepath.Join(t.TempDir(), "x.png"), 1)
	assert.Error(t, err)
}

type fakeConverter struct {
	src, dst string
	scale    float64
}

func (f *fakeConverter) ConvertEPS(_ context.Context, src, dst string, scale float64) error {
	f.src, f.dst, f.scale = src, dst, scale
	return nil
}

func TestToPNG(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{}

	eps := filepath.Join(dir, "shortbaseline_plot.eps")
	require.NoError(t, ToPNG(context.Background(), conv, eps, filepath.Join(dir, "plot.png"), 3))
	assert.Equal(t, eps, conv.src)
	assert.Equal(t, 3.0, conv.scale)

	bmpPlot := writeImage(t, filepath.Join(dir, "plot.bmp"), solid(20, 10))
	out := filepath.Join(dir, "out", "plot.png")
	require.NoError(t, ToPNG(context.Background(), nil, bmpPlot, out, 3))
	w, h, err := Size(out)
	require.NoError(t, err)
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)

	assert.Error(t, ToPNG(context.Background(), nil, eps, out, 3))
	assert.Error(t, ToPNG(context.Background(), conv, filepath.Join(dir, "plot.svg"), out, 3))
}

func TestGhostscript_MissingBinary(t *testing.T) {
	g := &Ghostscript{Binary: "radardoc-no-such-gs"}
	err := g.ConvertEPS(context.Background(), "in.eps", filepath.Join(t.TempDir(), "out.png"), 3)
	assert.True(t, errors.Is(err, ErrNoGhostscript))
}

func TestGhostscript_Convert(t *testing.T) {
	g := &Ghostscript{}
	if _, err := g.binary(); err != nil {
		t.Skip("ghostscript not installed")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "box.eps")
	eps := "%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 20 10\nnewpath 0 0 moveto 20 0 lineto 20 10 lineto 0 10 lineto closepath fill\nshowpage\n"
	require.NoError(t, os.WriteFile(src, []byte(eps), 0644))

	dst := filepath.Join(dir, "box.png")
	require.NoError(t, g.ConvertEPS(context.Background(), src, dst, 3))

	w, h, err := Size(dst)
	require.NoError(t, err)
	assert.Equal(t, 60, w)
	assert.Equal(t, 30, h)
}
