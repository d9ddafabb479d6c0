// Package radardoc provides a fluent API for building the reports of an
// InSAR processing run: per-policy baseline pages, coherence plot pages and
// coregistration error charts.
//
// Basic usage:
//
//	res, err := radardoc.Open("D:/runs/2024-03").Baseline(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(res.Output)
//
// With options:
//
//	res, err := radardoc.Open(root).
//	    Templates("templates").
//	    Areas("Taipei", "Keelung").
//	    ContinueOnError().
//	    Baseline(ctx)
//
// For finer control the report, docx and tables packages are available.
package radardoc

import (
	"github.com/tsawler/radardoc/config"
)

// Open returns a Generator for the Policy folders under root with the
// default settings, overridden by any RADARDOC_* environment variables.
//
// Example:
//
//	res, err := radardoc.Open("runs/42").Coherence(ctx)
func Open(root string) *Generator {
	cfg, err := defaultConfig()
	return &Generator{root: root, cfg: cfg, err: err}
}

// FromConfig returns a Generator using cfg. cfg is copied; later changes to
// it do not affect the Generator.
//
// Example:
//
//	cfg, err := config.Load("radardoc.yaml", nil)
//	if err != nil {
//	    // handle error
//	}
//	res, err := radardoc.FromConfig("runs/42", cfg).Baseline(ctx)
func FromConfig(root string, cfg *config.Config) *Generator {
	return &Generator{root: root, cfg: cloneConfig(cfg)}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := radardoc.Must(radardoc.Open(root).Baseline(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
