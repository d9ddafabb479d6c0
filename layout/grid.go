package layout

import (
	"math"
	"sort"
)

// Canvas is the drawing area an image grid must fit into, in centimeters.
type Canvas struct {
	Width  float64
	Height float64
}

// CellSize is the physical size of one grid cell, in centimeters.
type CellSize struct {
	Width  float64
	Height float64
}

// GridConfig holds configuration for grid solving
type GridConfig struct {
	// MinColumns and MaxColumns bound the candidate column counts (inclusive)
	// Default: 3 and 7
	MinColumns int
	MaxColumns int

	// MinFullness is the fraction of the last row that must be occupied for a
	// candidate to count as well filled. Candidates must be strictly above it.
	// Default: 0.5
	MinFullness float64

	// DefaultColumns and DefaultCell are returned when there is nothing to place
	// Default: 4 columns of 3.6 x 3.6
	DefaultColumns int
	DefaultCell    CellSize
}

// DefaultGridConfig returns sensible defaults for grid solving
func DefaultGridConfig() GridConfig {
	return GridConfig{
		MinColumns:     3,
		MaxColumns:     7,
		MinFullness:    0.5,
		DefaultColumns: 4,
		DefaultCell:    CellSize{Width: 3.6, Height: 3.6},
	}
}

// Candidate is one evaluated column count.
type Candidate struct {
	Columns     int
	Cell        CellSize
	AspectDelta float64 // |cell aspect - reference aspect|
	Fullness    float64 // fraction of the last row occupied, in (0,1]
}

// Rows returns the number of rows needed to hold count items.
func (c Candidate) Rows(count int) int {
	return RowsFor(count, c.Columns)
}

// GridLayout is the chosen arrangement.
type GridLayout struct {
	Columns int
	Cell    CellSize
}

// GridSolver picks the column count for an image grid.
type GridSolver struct {
	config GridConfig
}

// NewGridSolver creates a solver with default configuration
func NewGridSolver() *GridSolver {
	return &GridSolver{config: DefaultGridConfig()}
}

// NewGridSolverWithConfig creates a solver with custom configuration
func NewGridSolverWithConfig(config GridConfig) *GridSolver {
	return &GridSolver{config: config}
}

// Solve arranges count images of the given width/height ratio on the canvas.
//
// Among candidates whose last row is more than MinFullness occupied, the one
// with the smallest aspect deviation wins, ties going to the fuller last row.
// If no candidate is well filled, the smallest aspect deviation wins alone.
// Remaining ties go to the smaller column count.
func (s *GridSolver) Solve(count int, aspect float64, canvas Canvas) GridLayout {
	if count <= 0 {
		return GridLayout{Columns: s.config.DefaultColumns, Cell: s.config.DefaultCell}
	}

	candidates := s.Candidates(count, aspect, canvas)
	if len(candidates) == 0 {
		return GridLayout{Columns: s.config.DefaultColumns, Cell: s.config.DefaultCell}
	}

	var good []Candidate
	for _, c := range candidates {
		if c.Fullness > s.config.MinFullness {
			good = append(good, c)
		}
	}

	var best Candidate
	if len(good) > 0 {
		sort.SliceStable(good, func(i, j int) bool {
			if good[i].AspectDelta != good[j].AspectDelta {
				return good[i].AspectDelta < good[j].AspectDelta
			}
			return good[i].Fullness > good[j].Fullness
		})
		best = good[0]
	} else {
		best = candidates[0]
		for _, c := range candidates[1:] {
			if c.AspectDelta < best.AspectDelta {
				best = c
			}
		}
	}

	return GridLayout{Columns: best.Columns, Cell: best.Cell}
}

// Candidates evaluates every column count in range, in ascending order.
func (s *GridSolver) Candidates(count int, aspect float64, canvas Canvas) []Candidate {
	var out []Candidate
	for cols := s.config.MinColumns; cols <= s.config.MaxColumns; cols++ {
		rows := RowsFor(count, cols)
		if rows == 0 {
			continue
		}

		cell := CellSize{
			Width:  canvas.Width / float64(cols),
			Height: canvas.Height / float64(rows),
		}
		if cell.Height == 0 {
			continue
		}

		inLast := count % cols
		if inLast == 0 {
			inLast = cols
		}

		out = append(out, Candidate{
			Columns:     cols,
			Cell:        cell,
			AspectDelta: math.Abs(cell.Width/cell.Height - aspect),
			Fullness:    float64(inLast) / float64(cols),
		})
	}
	return out
}

// SolveGrid is a convenience wrapper using the default configuration.
func SolveGrid(count int, aspect float64, canvas Canvas) GridLayout {
	return NewGridSolver().Solve(count, aspect, canvas)
}

// RowsFor returns ceil(count/cols), or 0 when cols is not positive.
func RowsFor(count, cols int) int {
	if cols <= 0 || count <= 0 {
		return 0
	}
	return (count + cols - 1) / cols
}
