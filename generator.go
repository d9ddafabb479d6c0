package radardoc

import (
	"context"
	"errors"

	"github.com/tsawler/radardoc/config"
	"github.com/tsawler/radardoc/raster"
	"github.com/tsawler/radardoc/report"
)

// Generator provides a fluent interface for building reports. Each
// configuration method returns a new Generator, so a partly configured
// Generator can be shared and extended safely.
type Generator struct {
	root string
	cfg  *config.Config

	// converter overrides the Ghostscript EPS converter when set.
	converter raster.EPSConverter

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Generator with a deep copy of its settings.
func (g *Generator) clone() *Generator {
	return &Generator{
		root:      g.root,
		cfg:       cloneConfig(g.cfg),
		converter: g.converter,
		err:       g.err,
	}
}

// Config returns a copy of the settings the Generator will run with.
func (g *Generator) Config() (*config.Config, error) {
	if g.err != nil {
		return nil, g.err
	}
	return cloneConfig(g.cfg), nil
}

// ============================================================================
// Configuration Methods (return new Generator instance)
// ============================================================================

// Templates sets the folder holding baseline.docx and coherence.docx.
//
// Example:
//
//	res, err := radardoc.Open(root).Templates("/srv/templates").Baseline(ctx)
func (g *Generator) Templates(dir string) *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.TemplatesDir = dir
	}
	return out
}

// OutputDir sets the folder merged reports are written to. The default is
// the doc folder under the root.
func (g *Generator) OutputDir(dir string) *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.OutputDir = dir
	}
	return out
}

// Areas appends area names written into every baseline page.
// Multiple calls are cumulative.
//
// Example:
//
//	res, err := radardoc.Open(root).Areas("Taipei", "Keelung").Baseline(ctx)
func (g *Generator) Areas(areas ...string) *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.Areas = append(out.cfg.Areas, areas...)
	}
	return out
}

// Encoding sets the text encoding of the input data files, for example
// "big5".
func (g *Generator) Encoding(name string) *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.InputEncoding = name
	}
	return out
}

// ContinueOnError makes a batch skip policies whose inputs are missing or
// malformed instead of stopping at the first one. Template problems still
// stop the batch.
func (g *Generator) ContinueOnError() *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.ContinueOnError = true
	}
	return out
}

// Workbook makes the baseline report also write its tables to a workbook.
func (g *Generator) Workbook() *Generator {
	out := g.clone()
	if out.cfg != nil {
		out.cfg.XLSX = true
	}
	return out
}

// Converter replaces the Ghostscript converter used for EPS plots.
func (g *Generator) Converter(c raster.EPSConverter) *Generator {
	out := g.clone()
	out.converter = c
	return out
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Baseline builds the baseline report.
//
// Example:
//
//	res, err := radardoc.Open(root).Baseline(ctx)
func (g *Generator) Baseline(ctx context.Context) (*report.Result, error) {
	b, err := g.batch()
	if err != nil {
		return nil, err
	}
	return b.RunBaseline(ctx)
}

// Coherence builds the coherence report.
func (g *Generator) Coherence(ctx context.Context) (*report.Result, error) {
	b, err := g.batch()
	if err != nil {
		return nil, err
	}
	return b.RunCoherence(ctx)
}

// Coregistration renders the coregistration error chart of every policy.
func (g *Generator) Coregistration(ctx context.Context) (*report.Result, error) {
	b, err := g.batch()
	if err != nil {
		return nil, err
	}
	return b.RunCoregistration(ctx)
}

// Diagnose checks every policy's inputs without generating anything.
func (g *Generator) Diagnose(ctx context.Context) ([]report.Diagnosis, error) {
	b, err := g.batch()
	if err != nil {
		return nil, err
	}
	return b.Diagnose(ctx)
}

func (g *Generator) batch() (*report.Batch, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.cfg == nil {
		return nil, errors.New("radardoc: no configuration")
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := report.NewBatch(g.root, cloneConfig(g.cfg))
	if err != nil {
		return nil, err
	}
	if g.converter != nil {
		b.Converter = g.converter
	}
	return b, nil
}
