package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/radardoc/docx"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, filepath.Join("templates", "baseline.docx"), cfg.BaselineTemplate())
	assert.Equal(t, filepath.Join("templates", "coherence.docx"), cfg.CoherenceTemplate())
	assert.Equal(t, 14.7, cfg.Canvas.WidthCm)
	assert.Equal(t, 12.0, cfg.Canvas.HeightCm)
	assert.Equal(t, 150, cfg.Thumbnail.DPI)
	assert.Equal(t, 15.53, cfg.Plot.WidthCm)
	assert.Equal(t, 3.0, cfg.Plot.EPSScale)
	assert.Equal(t, 6, cfg.Coherence.PerPage)
	assert.True(t, cfg.Open)
	assert.False(t, cfg.ContinueOnError)
	assert.Equal(t, "utf-8", cfg.InputEncoding)

	assert.Equal(t, docx.Locator{Index: 1}, cfg.Anchors.MetadataTable)
	assert.Equal(t, CellRef{Row: 1, Col: 1}, cfg.Anchors.DatesCell)
	assert.Equal(t, docx.Locator{Index: 4}, cfg.Anchors.PlotParagraph)

	require.Len(t, cfg.Grids, 2)
	assert.Equal(t, Grid{
		Table:   docx.Locator{Index: 2},
		Dir:     "detrend_obs_file",
		Pattern: "*.tflt.filt.de.bmp",
		Suffix:  ".tflt.filt.de.bmp",
	}, cfg.Grids[0])
	assert.Equal(t, 3, cfg.Grids[1].Table.Index)

	assert.Equal(t, filepath.Join("root", "doc"), cfg.OutputFor("root"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radardoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates_dir: /srv/templates
canvas:
  width_cm: 16
anchors:
  metadata_table:
    marker: "No."
grids:
  - table: {marker: "Observations"}
    dir: obs
    pattern: "*.bmp"
    suffix: ".bmp"
areas: [North, South]
`), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/templates", cfg.TemplatesDir)
	assert.Equal(t, 16.0, cfg.Canvas.WidthCm)
	assert.Equal(t, 12.0, cfg.Canvas.HeightCm)
	assert.Equal(t, "No.", cfg.Anchors.MetadataTable.Marker)
	require.Len(t, cfg.Grids, 1)
	assert.Equal(t, "Observations", cfg.Grids[0].Table.Marker)
	assert.Equal(t, []string{"North", "South"}, cfg.Areas)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("RADARDOC_OUTPUT_DIR", "/tmp/env-out")
	t.Setenv("RADARDOC_THUMBNAIL_DPI", "300")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("open", true, "")
	flags.String("encoding", "utf-8", "")
	require.NoError(t, flags.Parse([]string{"--open=false", "--encoding=big5"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-out", cfg.OutputDir)
	assert.Equal(t, "/tmp/env-out", cfg.OutputFor("root"))
	assert.Equal(t, 300, cfg.Thumbnail.DPI)
	assert.False(t, cfg.Open)
	assert.Equal(t, "big5", cfg.InputEncoding)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero canvas", func(c *Config) { c.Canvas.WidthCm = 0 }},
		{"zero dpi", func(c *Config) { c.Thumbnail.DPI = 0 }},
		{"zero plot width", func(c *Config) { c.Plot.WidthCm = 0 }},
		{"odd per page", func(c *Config) { c.Coherence.PerPage = 5 }},
		{"grid without pattern", func(c *Config) { c.Grids = []Grid{{Dir: "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, base.Validate())
}
