package report

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/tsawler/radardoc/config"
)

const sectPr = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1134" w:bottom="1440" w:left="1134"/></w:sectPr>`

// para renders a body paragraph with one run per text.
func para(runs ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, r := range runs {
		fmt.Fprintf(&sb, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, r)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// row renders a table row with one single-run cell per text.
func row(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:tr>")
	for _, t := range texts {
		fmt.Fprintf(&sb, `<w:tc><w:tcPr><w:tcW w:w="1000" w:type="dxa"/></w:tcPr>%s</w:tc>`, para(t))
	}
	sb.WriteString("</w:tr>")
	return sb.String()
}

// sizedRow is row with a fixed height in twips under the given rule.
func sizedRow(twips int, rule string, texts ...string) string {
	trPr := fmt.Sprintf(`<w:tr><w:trPr><w:trHeight w:val="%d" w:hRule="%s"/></w:trPr>`, twips, rule)
	return strings.Replace(row(texts...), "<w:tr>", trPr, 1)
}

// table renders a table of cols 1000-twip columns holding rows.
func table(cols int, rows ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl><w:tblGrid>")
	for i := 0; i < cols; i++ {
		sb.WriteString(`<w:gridCol w:w="1000"/>`)
	}
	sb.WriteString("</w:tblGrid>")
	for _, r := range rows {
		sb.WriteString(r)
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// baselineBody mirrors the baseline template: header table, index, areas
// and plot paragraphs, metadata table and two image tables.
var baselineBody = para("Baseline report") +
	table(2, row("Item", "Value"), row("Dates", "-")) +
	para("Acquisitions") +
	para("(0)", " baseline map") +
	para("AREAS") +
	para("PLOT") +
	table(8, row("No", "Pair", "Distance", "Period", "No", "Pair", "Distance", "Period"), row(repeat("x", 8)...)) +
	table(3, row("label", "label", "label"), row("", "", "")) +
	table(3, row("label", "label", "label"), row("", "", "")) +
	sectPr

// coherenceBody mirrors the coherence template: a title and a two-column
// table of three caption rows, each above a picture row.
var coherenceBody = para("Coherence comparison") +
	table(2,
		captionRow(), row("", ""),
		captionRow(), row("", ""),
		captionRow(), row("", ""),
	) + sectPr

func captionRow() string {
	cell := `<w:tc>` + para("Figure ", "0") + `</w:tc>`
	return "<w:tr>" + cell + cell + "</w:tr>"
}

// writeDOCX writes a minimal Word package with the given body content.
func writeDOCX(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	parts := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">
  <w:body>` + body + `</w:body>
</w:document>`},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func solid(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(w, h)))
	require.NoError(t, f.Close())
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, solid(w, h)))
	require.NoError(t, f.Close())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// policyFixture describes the inputs of one policy folder.
type policyFixture struct {
	rows      []string // shortbaseline lines
	images    []string // pairs with an observation image
	plot      bool
	coherence string
	coreg     string
}

func writePolicy(t *testing.T, root, name string, p policyFixture) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0750))

	if p.rows != nil {
		writeFile(t, filepath.Join(dir, "postprocessing", "shortbaseline"), strings.Join(p.rows, "\n")+"\n")
	}
	for _, pair := range p.images {
		writeBMP(t, filepath.Join(dir, "postprocessing", "detrend_obs_file", pair+".tflt.filt.de.bmp"), 40, 30)
	}
	if p.plot {
		writeFile(t, filepath.Join(dir, "shortbaseline_plot.eps"), "%!PS-Adobe-3.0 EPSF-3.0\n%%BoundingBox: 0 0 100 50\n")
	}
	if p.coherence != "" {
		writeFile(t, filepath.Join(dir, "coherence_phase", "ifg_coh_filt_coh_compare"), p.coherence)
	}
	if p.coreg != "" {
		writeFile(t, filepath.Join(dir, "Report_3coregistration_Error.txt"), p.coreg)
	}
	return dir
}

// fakeConverter stands in for Ghostscript by writing a fixed PNG.
type fakeConverter struct {
	calls []string
}

func (f *fakeConverter) ConvertEPS(ctx context.Context, src, dst string, scale float64) error {
	f.calls = append(f.calls, src)
	img, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer img.Close()
	return png.Encode(img, solid(int(100*scale), int(50*scale)))
}

// newTestBatch writes both templates under root and returns a batch over it.
func newTestBatch(t *testing.T, root string, mutate func(*config.Config)) (*Batch, *fakeConverter) {
	t.Helper()

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.TemplatesDir = filepath.Join(root, "templates")
	cfg.Open = false
	if mutate != nil {
		mutate(cfg)
	}

	if !isFile(cfg.BaselineTemplate()) {
		writeDOCX(t, cfg.BaselineTemplate(), baselineBody)
	}
	if !isFile(cfg.CoherenceTemplate()) {
		writeDOCX(t, cfg.CoherenceTemplate(), coherenceBody)
	}

	b, err := NewBatch(root, cfg)
	require.NoError(t, err)
	conv := &fakeConverter{}
	b.Converter = conv
	return b, conv
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

// baselineRows returns n tab-separated rows chaining consecutive dates.
func baselineRows(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("2020%04d\t2020%04d\t%d.12345\t12", 101+i, 102+i, i)
	}
	return out
}
