package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/docx"
	"github.com/tsawler/radardoc/model"
	"github.com/tsawler/radardoc/raster"
	"github.com/tsawler/radardoc/tables"
)

// Step is a stage of building a policy's baseline page. Stages run once
// each, in order.
type Step int

const (
	StepInit Step = iota
	StepHeaderFields
	StepMetadataTable
	StepImageGrids
	StepOverviewPlot
	StepPaginate
	StepSaved
)

var stepNames = [...]string{"init", "header fields", "metadata table", "image grids", "overview plot", "paginate", "saved"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
	return stepNames[s]
}

// Files inside a policy folder.
const (
	postprocessingDir = "postprocessing"
	baselineFile      = "shortbaseline"
	thumbnailDir      = "converted_pngs"
	tmpDir            = "tmp"
)

// metadataHeaderRows is the number of header rows of the metadata table.
const metadataHeaderRows = 1

// metadataColumns is the number of cells one table row holds: two groups of
// No, pair, distance and period.
const metadataColumns = 8

// Policy builds the baseline page of one policy folder from its own copy of
// the template.
type Policy struct {
	Name string
	Dir  string
	Pos  Position
	Rows []model.DataRow

	batch *Batch
	doc   *docx.Document
	step  Step
	log   zerolog.Logger
}

// NewPolicy loads the template and the policy's baseline rows.
func (b *Batch) NewPolicy(ctx context.Context, dir string, pos Position) (*Policy, error) {
	template := b.Config.BaselineTemplate()
	doc, err := docx.Open(template)
	if err != nil {
		return nil, &ConfigurationError{Path: template, Reason: "cannot open baseline template", Err: err}
	}

	rowsPath := filepath.Join(dir, postprocessingDir, baselineFile)
	rows, err := readBaseline(rowsPath, b.Config.InputEncoding)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(dir)
	return &Policy{
		Name:  name,
		Dir:   dir,
		Pos:   pos,
		Rows:  rows,
		batch: b,
		doc:   doc,
		step:  StepInit,
		log:   zerolog.Ctx(ctx).With().Str("policy", name).Int("index", pos.Index).Logger(),
	}, nil
}

func readBaseline(path, encoding string) ([]model.DataRow, error) {
	if _, err := model.LookupEncoding(encoding); err != nil {
		return nil, &ConfigurationError{Reason: "invalid input_encoding", Err: err}
	}

	f, err := model.OpenFile(path, encoding)
	if err != nil {
		return nil, &DataSourceError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := model.ParseBaseline(f)
	if err != nil {
		return nil, dataSourceError(path, err)
	}
	return rows, nil
}

// Document returns the policy's working document.
func (p *Policy) Document() *docx.Document {
	return p.doc
}

// Step returns the last completed stage.
func (p *Policy) Step() Step {
	return p.step
}

// advance moves to the next stage, refusing to skip or repeat one.
func (p *Policy) advance(to Step) error {
	if to != p.step+1 {
		return fmt.Errorf("%s: cannot run %s after %s", p.Name, to, p.step)
	}
	p.step = to
	p.log.Debug().Str("step", to.String()).Msg("step done")
	return nil
}

func (p *Policy) expect(next Step) error {
	if next != p.step+1 {
		return fmt.Errorf("%s: cannot run %s after %s", p.Name, next, p.step)
	}
	return nil
}

// Generate runs every stage and returns the saved document path.
func (p *Policy) Generate(ctx context.Context) (string, error) {
	p.log.Info().Int("rows", len(p.Rows)).Msg("processing policy")

	stages := []func(context.Context) error{
		p.FillHeaderFields,
		p.FillMetadataTable,
		p.FillImageGrids,
		p.FillOverviewPlot,
	}
	for _, stage := range stages {
		if err := stage(ctx); err != nil {
			return "", err
		}
	}
	if err := p.Paginate(); err != nil {
		return "", err
	}
	return p.Save()
}

// FillHeaderFields writes the date list, the policy index and the areas.
func (p *Policy) FillHeaderFields(ctx context.Context) error {
	if err := p.expect(StepHeaderFields); err != nil {
		return err
	}
	anchors := p.batch.Config.Anchors

	tbl, err := p.table(anchors.HeaderTable)
	if err != nil {
		return err
	}
	cell, err := tbl.Cell(anchors.DatesCell.Row, anchors.DatesCell.Col)
	if err != nil {
		return p.configError("dates cell", err)
	}
	cell.SetText(JoinDates(model.Dates(p.Rows)))

	if err := p.setFirstRun(anchors.IndexParagraph, IndexLabel(p.Pos.Index)); err != nil {
		return err
	}

	if areas := FormatAreas(p.batch.Config.Areas); areas != "" {
		if err := p.setFirstRun(anchors.AreasParagraph, areas); err != nil {
			return err
		}
	}

	return p.advance(StepHeaderFields)
}

// FillMetadataTable lists the rows in two side-by-side halves of
// ceil(N/2) table rows.
func (p *Policy) FillMetadataTable(ctx context.Context) error {
	if err := p.expect(StepMetadataTable); err != nil {
		return err
	}

	tbl, err := p.table(p.batch.Config.Anchors.MetadataTable)
	if err != nil {
		return err
	}
	if cols := tbl.ColCount(); cols < metadataColumns {
		return p.configError("metadata table", fmt.Errorf("has %d columns, need %d", cols, metadataColumns))
	}

	half := MetadataRows(len(p.Rows))
	if err := tables.ResizeRows(tbl, metadataHeaderRows, half); err != nil {
		return p.configError("metadata table", err)
	}
	if err := tables.Clear(tbl, metadataHeaderRows); err != nil {
		return p.configError("metadata table", err)
	}

	for i, r := range p.Rows {
		row, col := metadataHeaderRows+i, 0
		if i >= half {
			row, col = metadataHeaderRows+i-half, metadataColumns/2
		}
		values := []string{strconv.Itoa(i + 1), r.Pair(), model.FormatDistance(r.Distance), r.Period}
		for k, v := range values {
			cell, err := tbl.Cell(row, col+k)
			if err != nil {
				return p.configError("metadata table", err)
			}
			cell.SetText(v)
		}
	}

	tbl.SetAlignment(docx.AlignCenter)
	if err := tables.ApplyBorders(tbl); err != nil {
		return p.configError("metadata table", err)
	}

	return p.advance(StepMetadataTable)
}

// MetadataRows returns the number of data rows the metadata table needs for
// n baseline rows.
func MetadataRows(n int) int {
	return (n + 1) / 2
}

// FillImageGrids fills every configured image grid.
func (p *Policy) FillImageGrids(ctx context.Context) error {
	if err := p.expect(StepImageGrids); err != nil {
		return err
	}

	for _, g := range p.batch.Config.Grids {
		if err := p.fillImageGrid(ctx, g); err != nil {
			return err
		}
	}

	return p.advance(StepImageGrids)
}

// FillOverviewPlot rasterizes the baseline plot and places it in the plot
// paragraph.
func (p *Policy) FillOverviewPlot(ctx context.Context) error {
	if err := p.expect(StepOverviewPlot); err != nil {
		return err
	}
	cfg := p.batch.Config

	para, err := p.paragraph(cfg.Anchors.PlotParagraph)
	if err != nil {
		return err
	}

	src := filepath.Join(p.Dir, cfg.Plot.File)
	if !isFile(src) {
		return &DataSourceError{Path: src, Err: os.ErrNotExist}
	}
	dst := filepath.Join(p.Dir, strings.TrimSuffix(cfg.Plot.File, filepath.Ext(cfg.Plot.File))+".png")
	if err := raster.ToPNG(ctx, p.batch.Converter, src, dst, cfg.Plot.EPSScale); err != nil {
		return &DataSourceError{Path: src, Err: err}
	}

	if err := para.SetImage(dst, docx.Cm(cfg.Plot.WidthCm)); err != nil {
		return &DataSourceError{Path: dst, Err: err}
	}

	return p.advance(StepOverviewPlot)
}

// Paginate ends the page with a page break unless the policy is the last
// of the batch.
func (p *Policy) Paginate() error {
	if err := p.expect(StepPaginate); err != nil {
		return err
	}
	if !p.Pos.Last() {
		p.doc.AddPageBreak()
	}
	return p.advance(StepPaginate)
}

// Save writes the document to the policy's tmp folder and returns its path.
func (p *Policy) Save() (string, error) {
	if err := p.expect(StepSaved); err != nil {
		return "", err
	}

	path := filepath.Join(p.Dir, tmpDir, fmt.Sprintf("baseline-%d.docx", p.Pos.Index))
	if err := p.doc.Save(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	if err := p.advance(StepSaved); err != nil {
		return "", err
	}
	p.log.Info().Str("path", path).Msg("policy saved")
	return path, nil
}

func (p *Policy) table(loc docx.Locator) (*docx.Table, error) {
	tbl, err := p.doc.Table(loc)
	if err != nil {
		return nil, p.configError("table at "+loc.String(), err)
	}
	return tbl, nil
}

func (p *Policy) paragraph(loc docx.Locator) (*docx.Paragraph, error) {
	para, err := p.doc.Paragraph(loc)
	if err != nil {
		return nil, p.configError("paragraph at "+loc.String(), err)
	}
	return para, nil
}

// setFirstRun overwrites the first run of the located paragraph.
func (p *Policy) setFirstRun(loc docx.Locator, text string) error {
	para, err := p.paragraph(loc)
	if err != nil {
		return err
	}
	runs := para.Runs()
	if len(runs) == 0 {
		return p.configError("paragraph at "+loc.String(), errors.New("has no run to write into"))
	}
	runs[0].SetText(text)
	return nil
}

func (p *Policy) configError(what string, err error) error {
	return &ConfigurationError{Path: p.batch.Config.BaselineTemplate(), Reason: what, Err: err}
}
