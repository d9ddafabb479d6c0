// Package sheet exports baseline tables to an Excel workbook alongside the
// Word report.
package sheet

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/radardoc/model"
)

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

var header = []interface{}{"No", "Pair", "Distance", "Period"}

// Baseline is the table of one policy.
type Baseline struct {
	Name string
	Rows []model.DataRow
}

// WriteBaselines writes one sheet per policy to a new workbook at path.
func WriteBaselines(path string, baselines []Baseline) error {
	if len(baselines) == 0 {
		return fmt.Errorf("no baselines to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	distanceFmt := "0.000"
	distStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &distanceFmt})
	if err != nil {
		return err
	}

	used := make(map[string]bool)
	first := f.GetSheetName(0)
	for i, b := range baselines {
		name := uniqueSheetName(b.Name, used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, b.Rows, headStyle, distStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, rows []model.DataRow, headStyle, distStyle int) error {
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "D1", headStyle); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{i + 1, r.Pair(), math.Round(r.Distance*1000) / 1000, r.Period}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(rows)+1)
		if err := f.SetCellStyle(name, "C2", last, distStyle); err != nil {
			return err
		}
	}

	return f.SetColWidth(name, "B", "B", 20)
}

// uniqueSheetName returns a valid sheet name derived from name that is not
// yet in used, and records it.
func uniqueSheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
