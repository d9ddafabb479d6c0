package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/tsawler/radardoc/tables"
)

var _ tables.Grid = (*Table)(nil)

// Child order of w:tcPr after the elements we write.
var (
	tcPrAfterTcW       = []string{"gridSpan", "hMerge", "vMerge", "tcBorders", "shd", "noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark", "headers", "cellIns", "cellDel", "cellMerge", "tcPrChange"}
	tcPrAfterTcBorders = []string{"shd", "noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark", "headers", "cellIns", "cellDel", "cellMerge", "tcPrChange"}
)

// Table is a w:tbl element. It implements tables.Grid; cells are the w:tc
// children of each row, so a horizontally merged cell counts once.
type Table struct {
	el  *etree.Element
	doc *Document
}

// Row is a w:tr element.
type Row struct {
	el  *etree.Element
	doc *Document
}

// Cell is a w:tc element.
type Cell struct {
	el  *etree.Element
	doc *Document
}

// Rows returns the table rows.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, el := range t.el.SelectElements("w:tr") {
		out = append(out, &Row{el: el, doc: t.doc})
	}
	return out
}

// Row returns the row at index i.
func (t *Table) Row(i int) (*Row, error) {
	rows := t.el.SelectElements("w:tr")
	if i < 0 || i >= len(rows) {
		return nil, fmt.Errorf("row %d out of range (table has %d rows)", i, len(rows))
	}
	return &Row{el: rows[i], doc: t.doc}, nil
}

// Cell returns the cell at (row, col).
func (t *Table) Cell(row, col int) (*Cell, error) {
	r, err := t.Row(row)
	if err != nil {
		return nil, err
	}
	return r.Cell(col)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.el.SelectElements("w:tr"))
}

// ColCount returns the number of grid columns, or the widest row when the
// table has no grid.
func (t *Table) ColCount() int {
	if grid := t.el.SelectElement("w:tblGrid"); grid != nil {
		if n := len(grid.SelectElements("w:gridCol")); n > 0 {
			return n
		}
	}
	widest := 0
	for _, r := range t.el.SelectElements("w:tr") {
		if n := len(r.SelectElements("w:tc")); n > widest {
			widest = n
		}
	}
	return widest
}

// CellCount returns the number of cells in row.
func (t *Table) CellCount(row int) int {
	r, err := t.Row(row)
	if err != nil {
		return 0
	}
	return len(r.Cells())
}

// ColumnWidths returns the grid column widths.
func (t *Table) ColumnWidths() []Length {
	var out []Length
	if grid := t.el.SelectElement("w:tblGrid"); grid != nil {
		for _, col := range grid.SelectElements("w:gridCol") {
			out = append(out, parseTwips(col.SelectAttrValue("w:w", "0")))
		}
	}
	return out
}

// AppendRow adds a row at the end of the table with one empty cell per grid
// column. When template is a valid row index the new row takes the template
// row's height and a copy of each template cell's properties.
func (t *Table) AppendRow(template int) error {
	tr := etree.NewElement("w:tr")

	var tpl *etree.Element
	if rows := t.el.SelectElements("w:tr"); template >= 0 && template < len(rows) {
		tpl = rows[template]
	}

	if tpl != nil {
		if trPr := tpl.SelectElement("w:trPr"); trPr != nil {
			if h := trPr.SelectElement("w:trHeight"); h != nil {
				tr.CreateElement("w:trPr").AddChild(h.Copy())
			}
		}
	}

	widths := t.ColumnWidths()
	cols := t.ColCount()
	var tplCells []*etree.Element
	if tpl != nil {
		tplCells = tpl.SelectElements("w:tc")
	}

	for i := 0; i < cols; i++ {
		tc := tr.CreateElement("w:tc")
		switch {
		case i < len(tplCells) && tplCells[i].SelectElement("w:tcPr") != nil:
			tc.AddChild(tplCells[i].SelectElement("w:tcPr").Copy())
		case i < len(widths):
			setCellWidth(tc, widths[i])
		}
		tc.CreateElement("w:p")
	}

	t.el.AddChild(tr)
	return nil
}

// RemoveRow deletes the row at index.
func (t *Table) RemoveRow(index int) error {
	r, err := t.Row(index)
	if err != nil {
		return err
	}
	t.el.RemoveChild(r.el)
	return nil
}

// AppendColumn adds a grid column of width (cm) and an empty cell to every row.
func (t *Table) AppendColumn(width float64) error {
	l := Cm(width)
	grid := t.el.SelectElement("w:tblGrid")
	if grid == nil {
		grid = etree.NewElement("w:tblGrid")
		if tblPr := t.el.SelectElement("w:tblPr"); tblPr != nil {
			t.el.InsertChildAt(tblPr.Index()+1, grid)
		} else {
			t.el.InsertChildAt(0, grid)
		}
	}
	grid.CreateElement("w:gridCol").CreateAttr("w:w", twipsAttr(l))

	for _, tr := range t.el.SelectElements("w:tr") {
		tc := tr.CreateElement("w:tc")
		setCellWidth(tc, l)
		tc.CreateElement("w:p")
	}
	return nil
}

// SetColumnWidth sets the grid width (cm) of a column and the width of each
// cell in that position.
func (t *Table) SetColumnWidth(index int, width float64) error {
	l := Cm(width)
	grid := t.el.SelectElement("w:tblGrid")
	if grid == nil {
		return fmt.Errorf("table has no grid")
	}
	cols := grid.SelectElements("w:gridCol")
	if index < 0 || index >= len(cols) {
		return fmt.Errorf("column %d out of range (table has %d columns)", index, len(cols))
	}
	cols[index].CreateAttr("w:w", twipsAttr(l))

	for _, tr := range t.el.SelectElements("w:tr") {
		if cells := tr.SelectElements("w:tc"); index < len(cells) {
			setCellWidth(cells[index], l)
		}
	}
	return nil
}

// ClearCell empties the text of every run in a cell, keeping the runs.
func (t *Table) ClearCell(row, col int) error {
	c, err := t.Cell(row, col)
	if err != nil {
		return err
	}
	c.ClearText()
	return nil
}

// SetCellBorders replaces the borders of the cell at (row, col).
func (t *Table) SetCellBorders(row, col int, b tables.CellBorders) error {
	c, err := t.Cell(row, col)
	if err != nil {
		return err
	}
	c.SetBorders(b)
	return nil
}

// SetAlignment aligns every paragraph of every cell.
func (t *Table) SetAlignment(a Alignment) {
	for _, r := range t.Rows() {
		for _, c := range r.Cells() {
			c.SetAlignment(a)
		}
	}
}

// contains reports whether any cell text contains s.
func (t *Table) contains(s string) bool {
	for _, r := range t.Rows() {
		for _, c := range r.Cells() {
			if strings.Contains(c.Text(), s) {
				return true
			}
		}
	}
	return false
}

// Cells returns the row's cells.
func (r *Row) Cells() []*Cell {
	var out []*Cell
	for _, el := range r.el.SelectElements("w:tc") {
		out = append(out, &Cell{el: el, doc: r.doc})
	}
	return out
}

// Cell returns the cell at index i.
func (r *Row) Cell(i int) (*Cell, error) {
	cells := r.el.SelectElements("w:tc")
	if i < 0 || i >= len(cells) {
		return nil, fmt.Errorf("cell %d out of range (row has %d cells)", i, len(cells))
	}
	return &Cell{el: cells[i], doc: r.doc}, nil
}

// Height returns the row height and its rule (exact, atLeast, auto).
func (r *Row) Height() (Length, string) {
	trPr := r.el.SelectElement("w:trPr")
	if trPr == nil {
		return 0, ""
	}
	h := trPr.SelectElement("w:trHeight")
	if h == nil {
		return 0, ""
	}
	return parseTwips(h.SelectAttrValue("w:val", "0")), h.SelectAttrValue("w:hRule", "")
}

// Paragraphs returns the cell's paragraphs.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range c.el.SelectElements("w:p") {
		out = append(out, &Paragraph{el: el, doc: c.doc})
	}
	return out
}

// Text returns the cell's paragraph texts joined by newlines.
func (c *Cell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Shading returns the cell's background fill, if any.
func (c *Cell) Shading() string {
	if tcPr := c.el.SelectElement("w:tcPr"); tcPr != nil {
		if shd := tcPr.SelectElement("w:shd"); shd != nil {
			return shd.SelectAttrValue("w:fill", "")
		}
	}
	return ""
}

// Borders returns the cell's border sides as written in its properties.
func (c *Cell) Borders() tables.CellBorders {
	var b tables.CellBorders
	tcPr := c.el.SelectElement("w:tcPr")
	if tcPr == nil {
		return b
	}
	borders := tcPr.SelectElement("w:tcBorders")
	if borders == nil {
		return b
	}
	read := func(side string) tables.Border {
		el := borders.SelectElement("w:" + side)
		if el == nil {
			return tables.Border{}
		}
		size, _ := strconv.Atoi(el.SelectAttrValue("w:sz", "0"))
		return tables.Border{
			Style: el.SelectAttrValue("w:val", ""),
			Size:  size,
			Color: el.SelectAttrValue("w:color", ""),
		}
	}
	b.Top, b.Left, b.Bottom, b.Right = read("top"), read("left"), read("bottom"), read("right")
	return b
}

// SetBorders replaces the cell's border definition.
func (c *Cell) SetBorders(b tables.CellBorders) {
	tcPr := firstChild(c.el, "w:tcPr")
	for _, old := range tcPr.SelectElements("w:tcBorders") {
		tcPr.RemoveChild(old)
	}

	borders := etree.NewElement("w:tcBorders")
	for _, side := range []struct {
		name   string
		border tables.Border
	}{
		{"top", b.Top},
		{"left", b.Left},
		{"bottom", b.Bottom},
		{"right", b.Right},
	} {
		el := borders.CreateElement("w:" + side.name)
		el.CreateAttr("w:val", side.border.Style)
		el.CreateAttr("w:sz", strconv.Itoa(side.border.Size))
		el.CreateAttr("w:space", "0")
		el.CreateAttr("w:color", side.border.Color)
	}
	insertOrdered(tcPr, borders, tcPrAfterTcBorders)
}

// SetAlignment aligns every paragraph in the cell.
func (c *Cell) SetAlignment(a Alignment) {
	for _, p := range c.Paragraphs() {
		p.SetAlignment(a)
	}
}

func setCellWidth(tc *etree.Element, l Length) {
	tcPr := firstChild(tc, "w:tcPr")
	w := orderedChild(tcPr, "w:tcW", tcPrAfterTcW)
	w.CreateAttr("w:w", twipsAttr(l))
	w.CreateAttr("w:type", "dxa")
}
