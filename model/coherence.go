package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CoherenceSample is the coherence of one pixel before and after filtering.
type CoherenceSample struct {
	Before float64
	After  float64
}

// ParseCoherence reads coherence samples from the last two tab-separated
// fields of each line. Blank lines are ignored.
func ParseCoherence(r io.Reader) ([]CoherenceSample, error) {
	var samples []CoherenceSample

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected at least 2 tab-separated fields, got %d", len(fields))}
		}

		before, err := strconv.ParseFloat(strings.TrimSpace(fields[len(fields)-2]), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid coherence %q: %w", fields[len(fields)-2], err)}
		}
		after, err := strconv.ParseFloat(strings.TrimSpace(fields[len(fields)-1]), 64)
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid coherence %q: %w", fields[len(fields)-1], err)}
		}

		samples = append(samples, CoherenceSample{Before: before, After: after})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading coherence samples: %w", err)
	}
	return samples, nil
}

// SplitCoherence returns the before and after series of samples.
func SplitCoherence(samples []CoherenceSample) (before, after []float64) {
	before = make([]float64, len(samples))
	after = make([]float64, len(samples))
	for i, s := range samples {
		before[i] = s.Before
		after[i] = s.After
	}
	return before, after
}
