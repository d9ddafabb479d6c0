package docx

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indexed outline of the document body: every non-empty
// body paragraph with its runs, then every table cell with its paragraphs
// and runs. The indices are the ones a Locator uses.
func (d *Document) Dump(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("--- Paragraphs ---\n")
	for i, p := range d.Paragraphs() {
		if strings.TrimSpace(p.Text()) == "" {
			continue
		}
		ew.printf("\nParagraph %d: %q\n", i, p.Text())
		for j, r := range p.Runs() {
			ew.printf("  Run %d: %q\n", j, r.Text())
		}
	}

	ew.printf("\n--- Tables ---\n")
	for i, t := range d.Tables() {
		ew.printf("\nTable %d:\n", i)
		for r, row := range t.Rows() {
			for c, cell := range row.Cells() {
				ew.printf("  Cell (%d, %d):\n", r, c)
				for k, p := range cell.Paragraphs() {
					ew.printf("    Para %d: %q\n", k, p.Text())
					for j, run := range p.Runs() {
						ew.printf("      Run %d: %q\n", j, run.Text())
					}
				}
			}
		}
	}

	return ew.err
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
