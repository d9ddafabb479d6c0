package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/radardoc/config"
	"github.com/tsawler/radardoc/docx"
)

func TestStep_String(t *testing.T) {
	assert.Equal(t, "init", StepInit.String())
	assert.Equal(t, "metadata table", StepMetadataTable.String())
	assert.Equal(t, "saved", StepSaved.String())
	assert.Equal(t, "step(42)", Step(42).String())
}

func TestMetadataRows(t *testing.T) {
	assert.Equal(t, 0, MetadataRows(0))
	assert.Equal(t, 1, MetadataRows(1))
	assert.Equal(t, 4, MetadataRows(7))
	assert.Equal(t, 20, MetadataRows(39))
}

func TestPolicy_StepsRunInOrder(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(2)})
	b, _ := newTestBatch(t, root, nil)
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	assert.Equal(t, StepInit, p.Step())

	err = p.FillMetadataTable(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot run metadata table after init")

	require.NoError(t, p.FillHeaderFields(ctx))
	assert.Equal(t, StepHeaderFields, p.Step())

	err = p.FillHeaderFields(ctx)
	require.Error(t, err)

	_, err = p.Save()
	require.Error(t, err)
	assert.Equal(t, StepHeaderFields, p.Step())
}

func TestPolicy_HeaderFields(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: []string{
		"0113\t0125\t1.5\t12",
		"0101\t0113\t2\t12",
	}})
	b, _ := newTestBatch(t, root, func(c *config.Config) {
		c.Areas = []string{"North", "South", "East"}
	})
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 3, Total: 5})
	require.NoError(t, err)
	require.NoError(t, p.FillHeaderFields(ctx))

	doc := p.Document()
	tbl, err := doc.Table(docx.Locator{Index: 0})
	require.NoError(t, err)
	cell, err := tbl.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "0101、0113、0125。", cell.Text())

	paras := doc.Paragraphs()
	assert.Equal(t, "(3) baseline map", paras[2].Text())
	assert.Equal(t, "North、South、\nEast。", paras[3].Text())
}

func TestPolicy_HeaderFieldsWithoutAreas(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(1)})
	b, _ := newTestBatch(t, root, nil)
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	require.NoError(t, p.FillHeaderFields(ctx))
	assert.Equal(t, "AREAS", p.Document().Paragraphs()[3].Text())
}

func TestPolicy_MetadataTable(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(39)})
	b, _ := newTestBatch(t, root, nil)
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	require.NoError(t, p.FillHeaderFields(ctx))
	require.NoError(t, p.FillMetadataTable(ctx))

	tbl, err := p.Document().Table(docx.Locator{Index: 1})
	require.NoError(t, err)
	require.Equal(t, 21, tbl.RowCount())

	text := func(r, c int) string {
		cell, err := tbl.Cell(r, c)
		require.NoError(t, err)
		return cell.Text()
	}

	assert.Equal(t, "No", text(0, 0))
	assert.Equal(t, "1", text(1, 0))
	assert.Equal(t, "20200101-20200102", text(1, 1))
	assert.Equal(t, "0.123", text(1, 2))
	assert.Equal(t, "12", text(1, 3))
	assert.Equal(t, "20", text(20, 0))

	// Right half starts at row 21 of the data.
	assert.Equal(t, "21", text(1, 4))
	assert.Equal(t, "20200121-20200122", text(1, 5))
	assert.Equal(t, "20.123", text(1, 6))
	assert.Equal(t, "39", text(19, 4))

	// The odd row out leaves the last right half empty.
	for c := 4; c < 8; c++ {
		assert.Empty(t, text(20, c))
	}

	cell, err := tbl.Cell(20, 0)
	require.NoError(t, err)
	b20 := cell.Borders()
	assert.Equal(t, 12, b20.Bottom.Size)
	assert.Equal(t, 12, b20.Left.Size)
	assert.Equal(t, 4, b20.Right.Size)
}

func TestPolicy_MetadataTableTooNarrow(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(2)})
	b, _ := newTestBatch(t, root, func(c *config.Config) {
		c.Anchors.MetadataTable = docx.Locator{Index: 0}
	})
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	require.NoError(t, p.FillHeaderFields(ctx))

	err = p.FillMetadataTable(ctx)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.True(t, IsFatal(err))
}

func TestPolicy_NoImagesClearsGrid(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(7), plot: true})
	b, _ := newTestBatch(t, root, nil)
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)

	path, err := p.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tmp", "baseline-1.docx"), path)
	assert.Equal(t, StepSaved, p.Step())

	doc, err := docx.Open(path)
	require.NoError(t, err)
	tbls := doc.Tables()
	require.Len(t, tbls, 4)
	assert.Equal(t, 5, tbls[1].RowCount())
	assert.Equal(t, 0, tbls[2].RowCount())
	assert.Equal(t, 0, tbls[3].RowCount())
}

func TestPolicy_ImageGrid(t *testing.T) {
	root := t.TempDir()
	pairs := []string{"20200101-20200102", "20200102-20200103", "20200103-20200104"}
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(3), images: pairs, plot: true})
	b, conv := newTestBatch(t, root, nil)
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 2})
	require.NoError(t, err)
	path, err := p.Generate(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "shortbaseline_plot.eps")}, conv.calls)
	assert.FileExists(t, filepath.Join(dir, "shortbaseline_plot.png"))

	doc, err := docx.Open(path)
	require.NoError(t, err)
	grid := doc.Tables()[2]

	// Three square-ish images fit one row of three.
	require.Equal(t, 2, grid.RowCount())
	assert.Equal(t, 3, grid.ColCount())
	for i, pair := range pairs {
		label, err := grid.Cell(0, i)
		require.NoError(t, err)
		assert.Equal(t, pair, label.Text())
		assert.Equal(t, docx.AlignCenter, label.Paragraphs()[0].Alignment())

		pic, err := grid.Cell(1, i)
		require.NoError(t, err)
		require.Len(t, pic.Paragraphs(), 1)
		assert.Equal(t, docx.AlignCenter, pic.Paragraphs()[0].Alignment())

		assert.FileExists(t, filepath.Join(dir, "tmp", "converted_pngs", pair+".png"))
	}
	for _, w := range grid.ColumnWidths() {
		assert.InDelta(t, 4.9, w.Cm(), 0.01)
	}

	// Not the last policy: a page break follows the plot.
	assert.Len(t, doc.Paragraphs(), 6)
}

func TestPolicy_ImageGridKeepsRowHeights(t *testing.T) {
	root := t.TempDir()
	var pairs []string
	for i := 0; i < 10; i++ {
		pairs = append(pairs, fmt.Sprintf("2020%04d-2020%04d", 101+i, 102+i))
	}
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(10), images: pairs, plot: true})

	plain := table(3, row("label", "label", "label"), row("", "", ""))
	sized := table(3, sizedRow(300, "exact", "label", "label", "label"), sizedRow(2000, "atLeast", "", "", ""))
	body := strings.Replace(baselineBody, plain, sized, 1)
	b, _ := newTestBatch(t, root, func(c *config.Config) {
		writeDOCX(t, c.BaselineTemplate(), body)
	})
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	path, err := p.Generate(ctx)
	require.NoError(t, err)

	doc, err := docx.Open(path)
	require.NoError(t, err)
	grid := doc.Tables()[2]

	require.Greater(t, grid.RowCount(), 2)
	require.Zero(t, grid.RowCount()%2)
	for i, r := range grid.Rows() {
		h, rule := r.Height()
		if i%2 == 0 {
			assert.Equal(t, int64(300), h.Twips(), "label row %d", i)
			assert.Equal(t, "exact", rule, "label row %d", i)
		} else {
			assert.Equal(t, int64(2000), h.Twips(), "picture row %d", i)
			assert.Equal(t, "atLeast", rule, "picture row %d", i)
		}
	}
}

func TestPolicy_GridTableMissingIsSkipped(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{
		rows:   baselineRows(1),
		images: []string{"20200101-20200102"},
		plot:   true,
	})
	b, _ := newTestBatch(t, root, func(c *config.Config) {
		c.Grids[0].Table = docx.Locator{Marker: "no such table"}
	})
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)
	_, err = p.Generate(ctx)
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "tmp", "converted_pngs"))
}

func TestPolicy_MissingAnchorIsFatal(t *testing.T) {
	root := t.TempDir()
	dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(1)})
	b, _ := newTestBatch(t, root, func(c *config.Config) {
		c.Anchors.IndexParagraph = docx.Locator{Index: 40}
	})
	ctx := testContext()

	p, err := b.NewPolicy(ctx, dir, Position{Index: 1, Total: 1})
	require.NoError(t, err)

	err = p.FillHeaderFields(ctx)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, b.Config.BaselineTemplate(), ce.Path)
	assert.ErrorIs(t, err, docx.ErrNotFound)
}

func TestNewPolicy_Errors(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		root := t.TempDir()
		dir := writePolicy(t, root, "Policy1", policyFixture{rows: baselineRows(1)})
		b, _ := newTestBatch(t, root, nil)
		require.NoError(t, os.Remove(b.Config.BaselineTemplate()))

		_, err := b.NewPolicy(testContext(), dir, Position{Index: 1, Total: 1})
		assert.True(t, IsFatal(err))
	})

	t.Run("missing data file", func(t *testing.T) {
		root := t.TempDir()
		dir := writePolicy(t, root, "Policy1", policyFixture{})
		b, _ := newTestBatch(t, root, nil)

		_, err := b.NewPolicy(testContext(), dir, Position{Index: 1, Total: 1})
		var de *DataSourceError
		require.ErrorAs(t, err, &de)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.False(t, IsFatal(err))
	})

	t.Run("bad row", func(t *testing.T) {
		root := t.TempDir()
		dir := writePolicy(t, root, "Policy1", policyFixture{rows: []string{
			"0101\t0113\t1.5\t12",
			"0113\t0125\tfar\t12",
		}})
		b, _ := newTestBatch(t, root, nil)

		_, err := b.NewPolicy(testContext(), dir, Position{Index: 1, Total: 1})
		var de *DataSourceError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 2, de.Line)
	})
}
