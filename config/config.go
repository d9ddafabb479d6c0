// Package config loads report settings from defaults, an optional YAML
// file, RADARDOC_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tsawler/radardoc/docx"
)

// EnvPrefix prefixes environment overrides, e.g. RADARDOC_OUTPUT_DIR.
const EnvPrefix = "RADARDOC"

// Config holds every report setting.
type Config struct {
	TemplatesDir    string `mapstructure:"templates_dir"`
	OutputDir       string `mapstructure:"output_dir"`
	Open            bool   `mapstructure:"open"`
	ContinueOnError bool   `mapstructure:"continue_on_error"`
	InputEncoding   string `mapstructure:"input_encoding"`
	XLSX            bool   `mapstructure:"xlsx"`
	Ghostscript     string `mapstructure:"ghostscript"`

	Canvas         Canvas         `mapstructure:"canvas"`
	Thumbnail      Thumbnail      `mapstructure:"thumbnail"`
	Plot           Plot           `mapstructure:"plot"`
	Coherence      Coherence      `mapstructure:"coherence"`
	Coregistration Coregistration `mapstructure:"coregistration"`
	Anchors        Anchors        `mapstructure:"anchors"`
	Grids          []Grid         `mapstructure:"grids"`

	// Areas are written into the areas paragraph of every baseline page.
	Areas []string `mapstructure:"areas"`
}

// Canvas is the area the image grid is laid out in.
type Canvas struct {
	WidthCm  float64 `mapstructure:"width_cm"`
	HeightCm float64 `mapstructure:"height_cm"`
}

// Thumbnail controls grid image resampling.
type Thumbnail struct {
	DPI int `mapstructure:"dpi"`
}

// Plot is the overview baseline plot.
type Plot struct {
	File     string  `mapstructure:"file"`
	WidthCm  float64 `mapstructure:"width_cm"`
	EPSScale float64 `mapstructure:"eps_scale"`
}

// Coherence controls the coherence report.
type Coherence struct {
	ImageWidthCm float64 `mapstructure:"image_width_cm"`
	PerPage      int     `mapstructure:"per_page"`
}

// Coregistration controls parsing of the coregistration error report.
type Coregistration struct {
	PeriodPrefix string `mapstructure:"period_prefix"`
}

// Anchors locate the structural elements of the templates.
type Anchors struct {
	HeaderTable    docx.Locator `mapstructure:"header_table"`
	DatesCell      CellRef      `mapstructure:"dates_cell"`
	MetadataTable  docx.Locator `mapstructure:"metadata_table"`
	IndexParagraph docx.Locator `mapstructure:"index_paragraph"`
	AreasParagraph docx.Locator `mapstructure:"areas_paragraph"`
	PlotParagraph  docx.Locator `mapstructure:"plot_paragraph"`

	CoherenceTable docx.Locator `mapstructure:"coherence_table"`
	CoherenceTitle docx.Locator `mapstructure:"coherence_title"`
}

// CellRef is a cell position inside a table.
type CellRef struct {
	Row int `mapstructure:"row"`
	Col int `mapstructure:"col"`
}

// Grid describes one image grid of the baseline template.
type Grid struct {
	Table   docx.Locator `mapstructure:"table"`
	Dir     string       `mapstructure:"dir"`
	Pattern string       `mapstructure:"pattern"`
	Suffix  string       `mapstructure:"suffix"`
}

// BaselineTemplate returns the path of the baseline template.
func (c *Config) BaselineTemplate() string {
	return filepath.Join(c.TemplatesDir, "baseline.docx")
}

// CoherenceTemplate returns the path of the coherence template.
func (c *Config) CoherenceTemplate() string {
	return filepath.Join(c.TemplatesDir, "coherence.docx")
}

// OutputFor returns the output directory for a run over root.
func (c *Config) OutputFor(root string) string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(root, "doc")
}

// Validate checks settings that would make a report meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.WidthCm <= 0 || c.Canvas.HeightCm <= 0:
		return fmt.Errorf("canvas must have a positive size, got %gx%g cm", c.Canvas.WidthCm, c.Canvas.HeightCm)
	case c.Thumbnail.DPI <= 0:
		return fmt.Errorf("thumbnail.dpi must be positive, got %d", c.Thumbnail.DPI)
	case c.Plot.WidthCm <= 0:
		return fmt.Errorf("plot.width_cm must be positive, got %g", c.Plot.WidthCm)
	case c.Coherence.PerPage <= 0 || c.Coherence.PerPage%2 != 0:
		return fmt.Errorf("coherence.per_page must be a positive even number, got %d", c.Coherence.PerPage)
	}
	for i, g := range c.Grids {
		if g.Pattern == "" {
			return fmt.Errorf("grids[%d]: pattern is required", i)
		}
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"templates":         "templates_dir",
	"output-dir":        "output_dir",
	"open":              "open",
	"continue-on-error": "continue_on_error",
	"encoding":          "input_encoding",
	"xlsx":              "xlsx",
	"ghostscript":       "ghostscript",
	"area":              "areas",
}

// Load reads the configuration. path may be empty; flags may be nil. Only
// flags present in flags are bound.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("templates_dir", "templates")
	v.SetDefault("output_dir", "")
	v.SetDefault("open", true)
	v.SetDefault("continue_on_error", false)
	v.SetDefault("input_encoding", "utf-8")
	v.SetDefault("xlsx", false)
	v.SetDefault("ghostscript", "")
	v.SetDefault("areas", []string{})

	v.SetDefault("canvas.width_cm", 14.7)
	v.SetDefault("canvas.height_cm", 12.0)
	v.SetDefault("thumbnail.dpi", 150)
	v.SetDefault("plot.file", "shortbaseline_plot.eps")
	v.SetDefault("plot.width_cm", 15.53)
	v.SetDefault("plot.eps_scale", 3)
	v.SetDefault("coherence.image_width_cm", 6)
	v.SetDefault("coherence.per_page", 6)
	v.SetDefault("coregistration.period_prefix", "./TCP_TW_4/M_Ss/")

	v.SetDefault("anchors.header_table.index", 0)
	v.SetDefault("anchors.dates_cell.row", 1)
	v.SetDefault("anchors.dates_cell.col", 1)
	v.SetDefault("anchors.metadata_table.index", 1)
	v.SetDefault("anchors.index_paragraph.index", 2)
	v.SetDefault("anchors.areas_paragraph.index", 3)
	v.SetDefault("anchors.plot_paragraph.index", 4)
	v.SetDefault("anchors.coherence_table.index", 0)
	v.SetDefault("anchors.coherence_title.index", 0)

	v.SetDefault("grids", []map[string]interface{}{
		{
			"table":   map[string]interface{}{"index": 2},
			"dir":     "detrend_obs_file",
			"pattern": "*.tflt.filt.de.bmp",
			"suffix":  ".tflt.filt.de.bmp",
		},
		{
			"table":   map[string]interface{}{"index": 3},
			"dir":     "detrend_obs_file",
			"pattern": "*.tflt.filt.de.geo.tif",
			"suffix":  ".tflt.filt.de.geo.tif",
		},
	})
}
