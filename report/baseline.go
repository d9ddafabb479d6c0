package report

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/sheet"
)

// RunBaseline builds a baseline page for every policy with a postprocessing
// folder and merges them into the baseline report. Policies without one are
// skipped but keep their place in the numbering.
func (b *Batch) RunBaseline(ctx context.Context) (*Result, error) {
	log := zerolog.Ctx(ctx)
	res := &Result{}

	var eligible []int
	for i, dir := range b.policies {
		if isDir(filepath.Join(dir, postprocessingDir)) {
			eligible = append(eligible, i)
			continue
		}
		log.Warn().Str("policy", filepath.Base(dir)).Msg("no postprocessing folder, skipping")
		res.Skipped = append(res.Skipped, dir)
	}
	if len(eligible) == 0 {
		return res, errors.New("no policy has a postprocessing folder")
	}

	// The page break is left off the last eligible page. Should that policy
	// fail, merging drops the break the previous page ended with.
	last := eligible[len(eligible)-1] + 1

	var books []sheet.Baseline
	for _, i := range eligible {
		dir := b.policies[i]
		pos := Position{Index: i + 1, Total: last}

		p, err := b.NewPolicy(ctx, dir, pos)
		if err != nil {
			if err := b.handleFailure(ctx, res, dir, err); err != nil {
				return res, err
			}
			continue
		}

		path, err := p.Generate(ctx)
		if err != nil {
			if err := b.handleFailure(ctx, res, dir, err); err != nil {
				return res, err
			}
			continue
		}
		res.Parts = append(res.Parts, path)
		books = append(books, sheet.Baseline{Name: p.Name, Rows: p.Rows})
	}
	if len(res.Parts) == 0 {
		return res, errors.New("no baseline page was generated")
	}

	out, err := b.merge(ctx, b.Config.BaselineTemplate(), res.Parts, BaselineOutput)
	if err != nil {
		return res, err
	}
	res.Output = out

	if b.Config.XLSX {
		book := filepath.Join(b.OutputDir(), WorkbookOutput)
		if err := sheet.WriteBaselines(book, books); err != nil {
			return res, err
		}
		log.Info().Str("path", book).Msg("baseline workbook written")
		res.Workbook = book
	}

	return res, nil
}
