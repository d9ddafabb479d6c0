package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsawler/radardoc/format"
)

// observationSuffix names the observation image expected for each data row.
const observationSuffix = ".tflt.filt.de.bmp"

var observationDir = filepath.Join(postprocessingDir, "detrend_obs_file")

// Diagnosis is the pre-flight result of one policy. Err is nil when every
// input is in place.
type Diagnosis struct {
	Policy string
	Index  int
	Err    error
}

// OK reports whether the policy passed every check.
func (d Diagnosis) OK() bool {
	return d.Err == nil
}

// Diagnose checks the inputs of every policy before any report is
// generated. Checks run in a fixed order and the first failure is reported.
// The returned error is only set when the templates themselves are unusable.
func (b *Batch) Diagnose(ctx context.Context) ([]Diagnosis, error) {
	log := zerolog.Ctx(ctx)

	for _, t := range []string{b.Config.BaselineTemplate(), b.Config.CoherenceTemplate()} {
		if err := checkTemplate(t); err != nil {
			return nil, err
		}
	}

	out := make([]Diagnosis, 0, len(b.policies))
	for i, dir := range b.policies {
		d := Diagnosis{Policy: filepath.Base(dir), Index: i + 1, Err: b.diagnosePolicy(dir)}
		if d.OK() {
			log.Info().Str("policy", d.Policy).Int("index", d.Index).Msg("inputs complete")
		} else {
			log.Warn().Err(d.Err).Str("policy", d.Policy).Int("index", d.Index).Msg("inputs incomplete")
		}
		out = append(out, d)
	}
	return out, nil
}

// checkTemplate confirms path is a Word document.
func checkTemplate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ConfigurationError{Path: path, Reason: "cannot open template", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return &ConfigurationError{Path: path, Reason: "cannot read template", Err: err}
	}
	got, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return &ConfigurationError{Path: path, Reason: "cannot read template", Err: err}
	}
	if got != format.DOCX {
		return &ConfigurationError{Path: path, Reason: fmt.Sprintf("template is %s, not a Word document", got)}
	}
	return nil
}

func (b *Batch) diagnosePolicy(dir string) error {
	required := []string{
		coregistrationFile,
		coherenceFile,
		filepath.Join(postprocessingDir, baselineFile),
		b.Config.Plot.File,
	}
	for _, rel := range required {
		path := filepath.Join(dir, rel)
		if !isFile(path) {
			return &DataSourceError{Path: path, Err: os.ErrNotExist}
		}
	}

	return b.checkObservations(dir)
}

// checkObservations lists every data row whose observation image is absent.
func (b *Batch) checkObservations(dir string) error {
	src := filepath.Join(dir, postprocessingDir, baselineFile)
	rows, err := readBaseline(src, b.Config.InputEncoding)
	if err != nil {
		return err
	}

	var missing []string
	for _, r := range rows {
		path := filepath.Join(dir, observationDir, r.ImageName(observationSuffix))
		if !isFile(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return &AssetMissingError{Policy: filepath.Base(dir), Paths: missing}
	}
	return nil
}

// Failed returns the diagnoses that did not pass.
func Failed(ds []Diagnosis) []Diagnosis {
	var out []Diagnosis
	for _, d := range ds {
		if !d.OK() {
			out = append(out, d)
		}
	}
	return out
}
