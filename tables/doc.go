// Package tables reshapes report tables to match data known only at run time.
//
// Templates ship tables with a fixed number of rows and columns. The
// functions here operate on any [Grid] (a Word table, or an in-memory stand-in
// in tests) and adjust it in place:
//
//   - [ResizeRows] - add or remove data rows below the header rows, copying
//     the height and cell formatting of the first data row
//   - [ResizeRowGroups] - the same for rows that repeat in groups, so a
//     caption row and a picture row each keep their own height
//   - [ResizeColumns] - add columns and normalize every column width
//   - [Clear] - blank the cells that survived a resize before refilling
//   - [RemoveAll] - drop every row of a table that has nothing to show
//
// # Borders
//
// [ApplyBorders] draws the report border rule: sides on the outer edge of
// the table are thick (12 eighths of a point), inner sides are thin (4).
// [BordersAt] computes the rule for a single cell.
package tables
