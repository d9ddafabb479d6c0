package model

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// DataRow is one date pair of a short-baseline file.
type DataRow struct {
	DateA    string
	DateB    string
	Distance float64
	Period   string
}

// Pair returns the "dateA-dateB" label used for the pair's files and cells.
func (r DataRow) Pair() string {
	return r.DateA + "-" + r.DateB
}

// ImageName returns the file name of the pair's image with the given suffix,
// for example ".tflt.filt.de.bmp".
func (r DataRow) ImageName(suffix string) string {
	return r.Pair() + suffix
}

// ParseBaseline reads tab-separated rows of dateA, dateB, distance and period.
// Rows keep their file order. Blank lines are ignored.
func ParseBaseline(r io.Reader) ([]DataRow, error) {
	var rows []DataRow

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 4 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected 4 tab-separated fields, got %d", len(fields))}
		}

		distance, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid distance %q: %w", fields[2], err)}
		}

		rows = append(rows, DataRow{
			DateA:    strings.TrimSpace(fields[0]),
			DateB:    strings.TrimSpace(fields[1]),
			Distance: distance,
			Period:   strings.TrimSpace(fields[3]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	return rows, nil
}

// Dates returns every date that appears in rows, once each, sorted.
func Dates(rows []DataRow) []string {
	seen := make(map[string]bool, len(rows)*2)
	var dates []string
	for _, r := range rows {
		for _, d := range []string{r.DateA, r.DateB} {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Strings(dates)
	return dates
}

// FormatDistance rounds v to 3 decimals and prints the shortest
// representation, keeping one decimal for whole numbers. Rounding applies to
// the exact binary value with ties to even, so 1.0005 (stored just below the
// half) gives "1.0" and 8.0625 gives "8.062".
func FormatDistance(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	rounded, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	s = strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
