package tables

import "fmt"

// Grid is a table that can be reshaped in place. Row and column indices are
// 0-based and count every row, including header rows. Widths are in
// centimeters.
type Grid interface {
	RowCount() int
	ColCount() int

	// CellCount returns the number of cells in the given row.
	CellCount(row int) int

	// AppendRow adds a row at the end of the table. When template is a valid
	// row index, the new row copies that row's height and each cell's
	// formatting; otherwise the row is added unformatted.
	AppendRow(template int) error
	RemoveRow(index int) error

	AppendColumn(width float64) error
	SetColumnWidth(index int, width float64) error

	// ClearCell removes the visible text of a cell, keeping its formatting.
	ClearCell(row, col int) error
	SetCellBorders(row, col int, borders CellBorders) error
}

// ResizeRows grows or shrinks g so that exactly dataRows rows follow its
// first headerRows rows. New rows copy the formatting of the first data row
// when one exists. Surplus rows are removed from the end; header rows are
// never touched.
func ResizeRows(g Grid, headerRows, dataRows int) error {
	return ResizeRowGroups(g, headerRows, dataRows, 1)
}

// ResizeRowGroups is ResizeRows for tables whose data rows repeat in groups
// of size rows, such as a caption row above a picture row. A new row copies
// the row at the same position of the first group, falling back to the first
// data row when the table holds no such row.
func ResizeRowGroups(g Grid, headerRows, dataRows, size int) error {
	if headerRows < 0 || dataRows < 0 {
		return fmt.Errorf("invalid row counts: header=%d data=%d", headerRows, dataRows)
	}
	if size < 1 {
		return fmt.Errorf("invalid row group size %d", size)
	}

	current := g.RowCount() - headerRows
	if current < 0 {
		return fmt.Errorf("table has %d rows, expected at least %d header rows", g.RowCount(), headerRows)
	}

	existing := current
	for ; current < dataRows; current++ {
		template := -1
		switch pos := current % size; {
		case pos < existing:
			template = headerRows + pos
		case existing > 0:
			template = headerRows
		}
		if err := g.AppendRow(template); err != nil {
			return fmt.Errorf("appending row %d: %w", headerRows+current, err)
		}
	}

	for ; current > dataRows; current-- {
		last := headerRows + current - 1
		if err := g.RemoveRow(last); err != nil {
			return fmt.Errorf("removing row %d: %w", last, err)
		}
	}

	return nil
}

// ResizeColumns appends columns of the given width until g has at least cols
// columns, then sets every column to that width. Columns are never removed.
func ResizeColumns(g Grid, cols int, width float64) error {
	if width <= 0 {
		return fmt.Errorf("invalid column width %g", width)
	}

	for g.ColCount() < cols {
		if err := g.AppendColumn(width); err != nil {
			return fmt.Errorf("appending column %d: %w", g.ColCount(), err)
		}
	}

	for i := 0; i < g.ColCount(); i++ {
		if err := g.SetColumnWidth(i, width); err != nil {
			return fmt.Errorf("setting width of column %d: %w", i, err)
		}
	}

	return nil
}

// Clear empties every cell from row fromRow on. It must run after a resize
// and before the table is filled again, otherwise text from a previous fill
// stays in rows that survived the resize.
func Clear(g Grid, fromRow int) error {
	for r := fromRow; r < g.RowCount(); r++ {
		for c := 0; c < g.CellCount(r); c++ {
			if err := g.ClearCell(r, c); err != nil {
				return fmt.Errorf("clearing cell (%d, %d): %w", r, c, err)
			}
		}
	}
	return nil
}

// RemoveAll deletes every row of g, last first.
func RemoveAll(g Grid) error {
	for r := g.RowCount() - 1; r >= 0; r-- {
		if err := g.RemoveRow(r); err != nil {
			return fmt.Errorf("removing row %d: %w", r, err)
		}
	}
	return nil
}
