package report

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/chart"
	"github.com/tsawler/radardoc/model"
)

// Coregistration inputs and outputs inside a policy folder.
const (
	coregistrationFile  = "Report_3coregistration_Error.txt"
	coregistrationChart = "coregistration.png"
)

// RunCoregistration renders the coregistration error chart of every policy
// that has an error report. Result.Parts lists the charts written.
func (b *Batch) RunCoregistration(ctx context.Context) (*Result, error) {
	log := zerolog.Ctx(ctx)
	res := &Result{}

	for _, dir := range b.policies {
		src := filepath.Join(dir, coregistrationFile)
		if !isFile(src) {
			log.Warn().Str("policy", filepath.Base(dir)).Msg("no coregistration report, skipping")
			res.Skipped = append(res.Skipped, dir)
			continue
		}

		out, err := b.renderCoregistration(ctx, dir, src)
		if err != nil {
			if err := b.handleFailure(ctx, res, dir, err); err != nil {
				return res, err
			}
			continue
		}
		res.Parts = append(res.Parts, out)
	}
	if len(res.Parts) == 0 {
		return res, errors.New("no coregistration chart was rendered")
	}
	return res, nil
}

func (b *Batch) renderCoregistration(ctx context.Context, dir, src string) (string, error) {
	log := zerolog.Ctx(ctx).With().Str("policy", filepath.Base(dir)).Logger()

	f, err := model.OpenFile(src, b.Config.InputEncoding)
	if err != nil {
		return "", &DataSourceError{Path: src, Err: err}
	}
	defer f.Close()

	c, err := model.ParseCoregistration(f, b.Config.Coregistration.PeriodPrefix)
	if err != nil {
		return "", dataSourceError(src, err)
	}

	for _, fix := range c.Correct() {
		log.Info().
			Str("axis", string(fix.Axis)).
			Str("period", fix.Period).
			Float64("from", fix.From).
			Float64("to", fix.To).
			Msg("second pass replaced by first pass")
	}

	out := filepath.Join(dir, coregistrationChart)
	if err := chart.SaveCoregistration(out, c); err != nil {
		return "", &DataSourceError{Path: src, Err: err}
	}
	log.Info().Str("path", out).Int("periods", len(c.Periods())).Msg("coregistration chart rendered")
	return out, nil
}
