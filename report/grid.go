package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/radardoc/config"
	"github.com/tsawler/radardoc/docx"
	"github.com/tsawler/radardoc/layout"
	"github.com/tsawler/radardoc/raster"
	"github.com/tsawler/radardoc/tables"
)

// rowsPerImage is the number of table rows one grid slot takes: a label row
// above a picture row.
const rowsPerImage = 2

// GridImages returns the images of one grid in a policy, sorted by name.
func GridImages(policyDir string, g config.Grid) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(policyDir, postprocessingDir, g.Dir, g.Pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid grid pattern %q: %w", g.Pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// GridRows returns the table row count for count images in cols columns.
func GridRows(count, cols int) int {
	return layout.RowsFor(count, cols) * rowsPerImage
}

// gridLabel is the caption of an image: its file name without the suffix.
func gridLabel(path, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// fillImageGrid lays the grid's images out in its table. A table locator
// that resolves to nothing is logged and the grid is skipped.
func (p *Policy) fillImageGrid(ctx context.Context, g config.Grid) error {
	tbl, err := p.doc.Table(g.Table)
	if errors.Is(err, docx.ErrNotFound) {
		p.log.Warn().Str("table", g.Table.String()).Str("pattern", g.Pattern).Msg("image table not found, skipping grid")
		return nil
	}
	if err != nil {
		return p.configError("image table at "+g.Table.String(), err)
	}

	images, err := GridImages(p.Dir, g)
	if err != nil {
		return p.configError("image grid", err)
	}

	if len(images) == 0 {
		p.log.Debug().Str("pattern", g.Pattern).Msg("no images, clearing grid")
		if err := tables.RemoveAll(tbl); err != nil {
			return p.configError("image table at "+g.Table.String(), err)
		}
		return nil
	}

	canvas := p.batch.Config.Canvas
	solved := p.batch.solver.Solve(len(images), raster.FirstAspectRatio(images), layout.Canvas{
		Width:  canvas.WidthCm,
		Height: canvas.HeightCm,
	})
	p.log.Debug().
		Int("images", len(images)).
		Int("columns", solved.Columns).
		Float64("cell_width", solved.Cell.Width).
		Float64("cell_height", solved.Cell.Height).
		Msg("grid solved")

	if err := tables.ResizeColumns(tbl, solved.Columns, solved.Cell.Width); err != nil {
		return p.configError("image table at "+g.Table.String(), err)
	}
	if err := tables.ResizeRowGroups(tbl, 0, GridRows(len(images), solved.Columns), rowsPerImage); err != nil {
		return p.configError("image table at "+g.Table.String(), err)
	}
	if err := tables.Clear(tbl, 0); err != nil {
		return p.configError("image table at "+g.Table.String(), err)
	}

	for i, src := range images {
		row := (i / solved.Columns) * rowsPerImage
		col := i % solved.Columns
		if err := p.fillGridSlot(tbl, row, col, src, g.Suffix, solved.Cell.Height); err != nil {
			return err
		}
	}
	return nil
}

// fillGridSlot writes the label and the thumbnail of one image.
func (p *Policy) fillGridSlot(tbl *docx.Table, row, col int, src, suffix string, heightCm float64) error {
	label, err := tbl.Cell(row, col)
	if err != nil {
		return p.configError("image table", err)
	}
	name := gridLabel(src, suffix)
	label.SetText(name)
	label.SetAlignment(docx.AlignCenter)

	thumb := filepath.Join(p.Dir, tmpDir, thumbnailDir, name+".png")
	if _, _, err := p.batch.thumbs.Thumbnail(src, thumb, heightCm); err != nil {
		return &DataSourceError{Path: src, Err: err}
	}

	pic, err := tbl.Cell(row+1, col)
	if err != nil {
		return p.configError("image table", err)
	}
	if err := pic.SetImage(thumb, docx.Cm(heightCm)); err != nil {
		return &DataSourceError{Path: thumb, Err: err}
	}
	return nil
}
