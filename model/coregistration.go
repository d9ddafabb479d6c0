package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultPeriodPrefix precedes the period directory in coregistration report
// lines.
const DefaultPeriodPrefix = "./TCP_TW_4/M_Ss/"

// CorrectionThreshold is the error (pixels) above which a second-pass value
// that is worse than the first pass is replaced.
const CorrectionThreshold = 0.2

// Axis is a coregistration direction.
type Axis string

// Coregistration axes
const (
	AxisRange   Axis = "Range"
	AxisAzimuth Axis = "Azimuth"
)

// Offset is a coregistration error of one period, in pixels.
type Offset struct {
	Period  string
	Range   float64
	Azimuth float64
}

// Coregistration holds the errors of the two coregistration passes. The
// report lists them interleaved: even lines (0-based) are the second pass,
// odd lines the first.
type Coregistration struct {
	First  []Offset
	Second []Offset
}

// Correction records one second-pass value replaced by the first-pass one.
type Correction struct {
	Axis   Axis
	Period string
	From   float64
	To     float64
}

// ParseCoregistration reads a coregistration error report. The period of a
// line is the path segment following prefix; range is the text between
// "range:" and "azimuth:", azimuth the text after "azimuth:".
func ParseCoregistration(r io.Reader, prefix string) (*Coregistration, error) {
	if prefix == "" {
		prefix = DefaultPeriodPrefix
	}

	c := &Coregistration{}
	scanner := bufio.NewScanner(r)
	line := 0
	index := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		off, err := parseOffset(text, prefix)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		if index%2 == 0 {
			c.Second = append(c.Second, off)
		} else {
			c.First = append(c.First, off)
		}
		index++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading coregistration report: %w", err)
	}
	return c, nil
}

func parseOffset(text, prefix string) (Offset, error) {
	period := text
	if i := strings.LastIndex(text, prefix); i >= 0 {
		period = text[i+len(prefix):]
	}
	if i := strings.Index(period, "/"); i >= 0 {
		period = period[:i]
	}

	ri := strings.LastIndex(text, "range:")
	ai := strings.LastIndex(text, "azimuth:")
	if ri < 0 || ai < 0 {
		return Offset{}, fmt.Errorf("missing range or azimuth in %q", text)
	}

	rangeText := text[ri+len("range:"):]
	if j := strings.Index(rangeText, "azimuth:"); j >= 0 {
		rangeText = rangeText[:j]
	}
	rng, err := strconv.ParseFloat(strings.TrimSpace(rangeText), 64)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid range %q: %w", strings.TrimSpace(rangeText), err)
	}

	az, err := strconv.ParseFloat(strings.TrimSpace(text[ai+len("azimuth:"):]), 64)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid azimuth %q: %w", strings.TrimSpace(text[ai+len("azimuth:"):]), err)
	}

	return Offset{Period: strings.TrimSpace(period), Range: rng, Azimuth: az}, nil
}

// Periods returns the period labels of the first pass.
func (c *Coregistration) Periods() []string {
	out := make([]string, len(c.First))
	for i, o := range c.First {
		out[i] = o.Period
	}
	return out
}

// Series returns the first and second pass values of axis, truncated to the
// length of the shorter pass.
func (c *Coregistration) Series(axis Axis) (first, second []float64) {
	n := min(len(c.First), len(c.Second))
	first = make([]float64, n)
	second = make([]float64, n)
	for i := 0; i < n; i++ {
		first[i] = c.First[i].value(axis)
		second[i] = c.Second[i].value(axis)
	}
	return first, second
}

// Correct replaces each second-pass value that exceeds both the first-pass
// value and CorrectionThreshold with the first-pass value, on both axes. The
// replacements are returned in order, range first.
func (c *Coregistration) Correct() []Correction {
	var out []Correction
	n := min(len(c.First), len(c.Second))
	for _, axis := range []Axis{AxisRange, AxisAzimuth} {
		for i := 0; i < n; i++ {
			first, second := c.First[i].value(axis), c.Second[i].value(axis)
			if second > first && second > CorrectionThreshold {
				c.Second[i].set(axis, first)
				out = append(out, Correction{Axis: axis, Period: c.First[i].Period, From: second, To: first})
			}
		}
	}
	return out
}

func (o Offset) value(axis Axis) float64 {
	if axis == AxisAzimuth {
		return o.Azimuth
	}
	return o.Range
}

func (o *Offset) set(axis Axis, v float64) {
	if axis == AxisAzimuth {
		o.Azimuth = v
		return
	}
	o.Range = v
}
