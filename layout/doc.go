// Package layout arranges report images into table grids.
//
// The [GridSolver] decides how many images go in each row of an image table
// so that every cell approximates the images' own width/height ratio while
// the last row stays reasonably full:
//
//	solver := layout.NewGridSolver()
//	grid := solver.Solve(len(images), aspect, layout.Canvas{Width: 14.7, Height: 12})
//	rows := layout.RowsFor(len(images), grid.Columns)
//
// # Candidates
//
// Every column count between MinColumns and MaxColumns is evaluated. For each
// candidate the cell size is the canvas split evenly into columns and rows,
// and two scores are kept:
//
//   - AspectDelta - distance between the cell ratio and the image ratio
//   - Fullness - share of the last row occupied by images
//
// Candidates with Fullness above MinFullness are preferred. Within them the
// smallest AspectDelta wins; if none qualifies, the smallest AspectDelta over
// all candidates wins.
//
// # Empty Grids
//
// Zero images yield the configured default (4 columns of 3.6 x 3.6 cm). The
// caller normally removes the grid entirely in that case.
package layout
