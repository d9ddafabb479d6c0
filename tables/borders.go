package tables

// Border is one side of a cell border. Size is in eighths of a point.
type Border struct {
	Style string
	Size  int
	Color string
}

// Border weights used on report tables.
var (
	ThinBorder  = Border{Style: "single", Size: 4, Color: "auto"}
	ThickBorder = Border{Style: "single", Size: 12, Color: "auto"}
)

// CellBorders holds the four sides of a cell border.
type CellBorders struct {
	Top    Border
	Left   Border
	Bottom Border
	Right  Border
}

// BordersAt returns the borders of the cell at (row, col) in a table of rows
// rows whose row holds cols cells: sides on the outer edge of the table are
// thick, inner sides are thin.
func BordersAt(row, col, rows, cols int) CellBorders {
	pick := func(edge bool) Border {
		if edge {
			return ThickBorder
		}
		return ThinBorder
	}

	return CellBorders{
		Top:    pick(row == 0),
		Left:   pick(col == 0),
		Bottom: pick(row == rows-1),
		Right:  pick(col == cols-1),
	}
}

// ApplyBorders replaces the borders of every cell in g with the thick outer,
// thin inner rule. The right edge is taken per row, so rows with merged
// cells still get a thick right side.
func ApplyBorders(g Grid) error {
	rows := g.RowCount()
	for r := 0; r < rows; r++ {
		cols := g.CellCount(r)
		for c := 0; c < cols; c++ {
			if err := g.SetCellBorders(r, c, BordersAt(r, c, rows, cols)); err != nil {
				return err
			}
		}
	}
	return nil
}
