package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/chart"
	"github.com/tsawler/radardoc/docx"
	"github.com/tsawler/radardoc/model"
)

// Coherence inputs and outputs inside a policy folder.
var coherenceFile = filepath.Join("coherence_phase", "ifg_coh_filt_coh_compare")

const coherencePlot = "coherence.png"

// CoherencePlot is one rendered coherence chart.
type CoherencePlot struct {
	Policy string
	Index  int // policy position in the batch, shown in the chart title
	Path   string
}

// RunCoherence renders a coherence chart for every policy that has the
// comparison file, lays the charts out in pages and merges the pages into
// the coherence report.
func (b *Batch) RunCoherence(ctx context.Context) (*Result, error) {
	log := zerolog.Ctx(ctx)
	res := &Result{}

	var plots []CoherencePlot
	for i, dir := range b.policies {
		src := filepath.Join(dir, coherenceFile)
		if !isFile(src) {
			log.Warn().Str("policy", filepath.Base(dir)).Msg("no coherence comparison file, skipping")
			res.Skipped = append(res.Skipped, dir)
			continue
		}

		plot, err := b.renderCoherence(ctx, dir, src, i+1)
		if err != nil {
			if err := b.handleFailure(ctx, res, dir, err); err != nil {
				return res, err
			}
			continue
		}
		plots = append(plots, plot)
	}
	if len(plots) == 0 {
		return res, errors.New("no coherence chart was rendered")
	}

	pages := CoherencePages(plots, b.Config.Coherence.PerPage)
	for k, group := range pages {
		pos := Position{Index: k + 1, Total: len(pages)}
		path, err := b.FillCoherencePage(ctx, pos, group)
		if err != nil {
			return res, err
		}
		res.Parts = append(res.Parts, path)
	}

	out, err := b.merge(ctx, b.Config.CoherenceTemplate(), res.Parts, CoherenceOutput)
	if err != nil {
		return res, err
	}
	res.Output = out
	return res, nil
}

func (b *Batch) renderCoherence(ctx context.Context, dir, src string, index int) (CoherencePlot, error) {
	f, err := model.OpenFile(src, b.Config.InputEncoding)
	if err != nil {
		return CoherencePlot{}, &DataSourceError{Path: src, Err: err}
	}
	defer f.Close()

	samples, err := model.ParseCoherence(f)
	if err != nil {
		return CoherencePlot{}, dataSourceError(src, err)
	}

	out := filepath.Join(dir, coherencePlot)
	if err := chart.SaveCoherence(out, samples, index); err != nil {
		return CoherencePlot{}, &DataSourceError{Path: src, Err: err}
	}
	zerolog.Ctx(ctx).Info().Str("policy", filepath.Base(dir)).Int("samples", len(samples)).Msg("coherence chart rendered")

	return CoherencePlot{Policy: filepath.Base(dir), Index: index, Path: out}, nil
}

// CoherencePages splits plots into pages of at most perPage charts.
func CoherencePages(plots []CoherencePlot, perPage int) [][]CoherencePlot {
	var pages [][]CoherencePlot
	for len(plots) > 0 {
		n := min(perPage, len(plots))
		pages = append(pages, plots[:n])
		plots = plots[n:]
	}
	return pages
}

// CoherenceSlot returns the table cells of the i-th chart on a page: the
// caption cell holding its number and the picture cell below it.
func CoherenceSlot(i int) (caption, picture [2]int) {
	row := (i / 2) * 2
	return [2]int{row, i % 2}, [2]int{row + 1, i % 2}
}

// coherenceRowsKept is the number of table rows a page of n charts uses.
func coherenceRowsKept(n int) int {
	return ((n-1)/2)*2 + 2
}

// FillCoherencePage builds page pos.Index of the coherence report from a
// fresh copy of the template and saves it under the root's tmp folder.
// Charts are numbered across pages.
func (b *Batch) FillCoherencePage(ctx context.Context, pos Position, plots []CoherencePlot) (string, error) {
	cfg := b.Config
	template := cfg.CoherenceTemplate()
	anchorErr := func(what string, err error) error {
		return &ConfigurationError{Path: template, Reason: what, Err: err}
	}

	doc, err := docx.Open(template)
	if err != nil {
		return "", anchorErr("cannot open coherence template", err)
	}
	tbl, err := doc.Table(cfg.Anchors.CoherenceTable)
	if err != nil {
		return "", anchorErr("table at "+cfg.Anchors.CoherenceTable.String(), err)
	}

	first := (pos.Index-1)*cfg.Coherence.PerPage + 1
	for i, plot := range plots {
		caption, picture := CoherenceSlot(i)

		cell, err := tbl.Cell(caption[0], caption[1])
		if err != nil {
			return "", anchorErr("coherence caption cell", err)
		}
		if err := setNumberRun(cell, first+i); err != nil {
			return "", anchorErr(fmt.Sprintf("coherence caption cell (%d, %d)", caption[0], caption[1]), err)
		}

		cell, err = tbl.Cell(picture[0], picture[1])
		if err != nil {
			return "", anchorErr("coherence picture cell", err)
		}
		cell.ClearContent()
		para := cell.AddParagraph()
		if err := para.SetImage(plot.Path, docx.Cm(cfg.Coherence.ImageWidthCm)); err != nil {
			return "", &DataSourceError{Path: plot.Path, Err: err}
		}
		para.SetAlignment(docx.AlignCenter)
	}

	if pos.Index > 1 {
		title, err := doc.Paragraph(cfg.Anchors.CoherenceTitle)
		if err != nil {
			return "", anchorErr("paragraph at "+cfg.Anchors.CoherenceTitle.String(), err)
		}
		title.Clear()
	}

	for r := tbl.RowCount() - 1; r >= coherenceRowsKept(len(plots)); r-- {
		if err := tbl.RemoveRow(r); err != nil {
			return "", anchorErr("coherence table", err)
		}
	}

	if !pos.Last() {
		doc.AddPageBreak()
	}

	path := filepath.Join(b.Root, tmpDir, fmt.Sprintf("coherence-%d.docx", pos.Index-1))
	if err := doc.Save(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Int("charts", len(plots)).Msg("coherence page saved")
	return path, nil
}

// setNumberRun writes n into the second run of the cell's first paragraph,
// the run that follows the caption text.
func setNumberRun(cell *docx.Cell, n int) error {
	ps := cell.Paragraphs()
	if len(ps) == 0 {
		return errors.New("caption cell has no paragraph")
	}
	runs := ps[0].Runs()
	if len(runs) < 2 {
		return fmt.Errorf("caption has %d run(s), need 2", len(runs))
	}
	runs[1].SetText(fmt.Sprint(n))
	return nil
}
