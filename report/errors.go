package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/radardoc/model"
)

// ConfigurationError reports a template or setting the report cannot work
// with: a missing or malformed template, or an anchor that resolves to
// nothing. It always aborts a batch.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DataSourceError reports an input file of a policy that is missing or
// cannot be parsed. Line is 1-based, or 0 when the whole file is at fault.
type DataSourceError struct {
	Path string
	Line int
	Err  error
}

func (e *DataSourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// dataSourceError wraps err for path, lifting the line number of a parse error.
func dataSourceError(path string, err error) error {
	var pe *model.ParseError
	if errors.As(err, &pe) {
		return &DataSourceError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &DataSourceError{Path: path, Err: err}
}

// AssetMissingError lists the expected images a policy lacks.
type AssetMissingError struct {
	Policy string
	Paths  []string
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("%s: %d missing image(s): %s", e.Policy, len(e.Paths), strings.Join(e.Paths, ", "))
}

// IsFatal reports whether err must abort the whole batch regardless of
// the continue-on-error setting.
func IsFatal(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
