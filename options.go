package radardoc

import (
	"github.com/tsawler/radardoc/config"
)

// defaultConfig returns the built-in settings with environment overrides.
func defaultConfig() (*config.Config, error) {
	return config.Load("", nil)
}

// cloneConfig creates a deep copy of cfg.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	out := *cfg

	// Deep copy slices
	if cfg.Areas != nil {
		out.Areas = make([]string, len(cfg.Areas))
		copy(out.Areas, cfg.Areas)
	}
	if cfg.Grids != nil {
		out.Grids = make([]config.Grid, len(cfg.Grids))
		copy(out.Grids, cfg.Grids)
	}

	return &out
}
