// Package report assembles the radar processing reports: the per-policy
// baseline pages, the coherence plot pages and the coregistration charts,
// plus the pre-flight check that runs before them.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/config"
	"github.com/tsawler/radardoc/docx"
	"github.com/tsawler/radardoc/layout"
	"github.com/tsawler/radardoc/raster"
)

// PolicyPrefix starts the name of every policy folder under the root.
const PolicyPrefix = "Policy"

// Output document names.
const (
	BaselineOutput  = "基線.docx"
	CoherenceOutput = "coherence.docx"
	WorkbookOutput  = "baseline.xlsx"
)

// Position is a policy's or page's place in the batch. Index is 1-based;
// Total is the Index of the last one that produces a page.
type Position struct {
	Index int
	Total int
}

// Last reports whether this is the final policy of the batch.
func (p Position) Last() bool {
	return p.Index == p.Total
}

// Batch is one run over a root folder. It carries everything policies share
// so that no state lives outside it.
type Batch struct {
	Root      string
	Config    *config.Config
	Converter raster.EPSConverter

	thumbs   *raster.Thumbnailer
	solver   *layout.GridSolver
	policies []string
}

// Result summarizes a batch run.
type Result struct {
	Output   string   // merged document, if any
	Parts    []string // per-policy or per-page files, in order
	Skipped  []string // policies without the required inputs
	Failed   []string // policies that failed with continue_on_error set
	Workbook string   // companion workbook, if written
}

// NewBatch prepares a run over the Policy folders of root.
func NewBatch(root string, cfg *config.Config) (*Batch, error) {
	policies, err := DiscoverPolicies(root)
	if err != nil {
		return nil, err
	}

	return &Batch{
		Root:      root,
		Config:    cfg,
		Converter: &raster.Ghostscript{Binary: cfg.Ghostscript},
		thumbs:    raster.NewThumbnailer(cfg.Thumbnail.DPI),
		solver:    layout.NewGridSolver(),
		policies:  policies,
	}, nil
}

// DiscoverPolicies returns the Policy* directories of root, sorted by name.
func DiscoverPolicies(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading root folder: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), PolicyPrefix) {
			out = append(out, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Policies returns the discovered policy folders.
func (b *Batch) Policies() []string {
	return b.policies
}

// OutputDir returns the folder merged documents are written to.
func (b *Batch) OutputDir() string {
	return b.Config.OutputFor(b.Root)
}

// handleFailure decides whether a policy failure aborts the batch. It
// returns nil when the batch should go on.
func (b *Batch) handleFailure(ctx context.Context, res *Result, policy string, err error) error {
	if IsFatal(err) || !b.Config.ContinueOnError {
		return fmt.Errorf("%s: %w", filepath.Base(policy), err)
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("policy", filepath.Base(policy)).Msg("policy failed, continuing")
	res.Failed = append(res.Failed, policy)
	return nil
}

// merge concatenates parts into name under the output folder, taking page
// layout and styles from template.
func (b *Batch) merge(ctx context.Context, template string, parts []string, name string) (string, error) {
	out := filepath.Join(b.OutputDir(), name)
	if err := docx.Concatenate(template, parts, out); err != nil {
		return "", fmt.Errorf("merging %d documents: %w", len(parts), err)
	}
	zerolog.Ctx(ctx).Info().Str("output", out).Int("parts", len(parts)).Msg("merged report")
	return out, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
