package docx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsPkg = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types
const (
	relTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Package parts
const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
)

// ErrNotFound is returned when a locator matches no element.
var ErrNotFound = errors.New("element not found")

// Document is a Word document loaded for editing. The main document part is
// kept as an element tree; every other part is carried through unchanged
// unless an operation needs to touch it.
type Document struct {
	parts map[string][]byte
	order []string

	main  *etree.Document
	rels  *etree.Document
	types *etree.Document
	body  *etree.Element

	media  map[string]string // sha1 of media bytes -> relationship ID
	maxDoc int               // highest wp:docPr id in use
	maxRel int               // highest numeric rIdN in use
	source string
}

// Locator addresses a body-level paragraph or table. A non-empty Marker is
// searched for in element text; otherwise Index is the 0-based position
// among body-level elements of that kind.
type Locator struct {
	Marker string `mapstructure:"marker"`
	Index  int    `mapstructure:"index"`
}

func (l Locator) String() string {
	if l.Marker != "" {
		return fmt.Sprintf("marker %q", l.Marker)
	}
	return fmt.Sprintf("index %d", l.Index)
}

// Source returns the path the document was opened from, if any.
func (d *Document) Source() string {
	return d.source
}

// Paragraphs returns the paragraphs that are direct children of the body.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range d.body.SelectElements("w:p") {
		out = append(out, &Paragraph{el: el, doc: d})
	}
	return out
}

// Tables returns the tables that are direct children of the body.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, el := range d.body.SelectElements("w:tbl") {
		out = append(out, &Table{el: el, doc: d})
	}
	return out
}

// Paragraph returns the body-level paragraph matched by loc.
func (d *Document) Paragraph(loc Locator) (*Paragraph, error) {
	paragraphs := d.Paragraphs()
	if loc.Marker != "" {
		for _, p := range paragraphs {
			if strings.Contains(p.Text(), loc.Marker) {
				return p, nil
			}
		}
		return nil, fmt.Errorf("paragraph with %s: %w", loc, ErrNotFound)
	}
	if loc.Index < 0 || loc.Index >= len(paragraphs) {
		return nil, fmt.Errorf("paragraph at %s (document has %d): %w", loc, len(paragraphs), ErrNotFound)
	}
	return paragraphs[loc.Index], nil
}

// Table returns the body-level table matched by loc. A marker matches any
// cell text of the table.
func (d *Document) Table(loc Locator) (*Table, error) {
	tbls := d.Tables()
	if loc.Marker != "" {
		for _, t := range tbls {
			if t.contains(loc.Marker) {
				return t, nil
			}
		}
		return nil, fmt.Errorf("table with %s: %w", loc, ErrNotFound)
	}
	if loc.Index < 0 || loc.Index >= len(tbls) {
		return nil, fmt.Errorf("table at %s (document has %d): %w", loc, len(tbls), ErrNotFound)
	}
	return tbls[loc.Index], nil
}

// AddPageBreak appends a paragraph holding a page break at the end of the
// body, ahead of the final section properties.
func (d *Document) AddPageBreak() {
	p := etree.NewElement("w:p")
	r := p.CreateElement("w:r")
	br := r.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
	d.appendToBody(p)
}

// TrimTrailingPageBreaks removes the page-break-only paragraphs that end the
// body, so the document does not finish on a blank page.
func (d *Document) TrimTrailingPageBreaks() {
	content := d.bodyContent()
	for i := len(content) - 1; i >= 0 && isPageBreakParagraph(content[i]); i-- {
		d.body.RemoveChild(content[i])
	}
}

// isPageBreakParagraph reports whether el is a paragraph whose runs hold
// nothing but page breaks.
func isPageBreakParagraph(el *etree.Element) bool {
	if el.Space != "w" || el.Tag != "p" {
		return false
	}
	breaks := 0
	for _, r := range el.SelectElements("w:r") {
		for _, c := range r.ChildElements() {
			switch {
			case c.Space == "w" && c.Tag == "rPr":
			case c.Space == "w" && c.Tag == "br" && c.SelectAttrValue("w:type", "") == "page":
				breaks++
			default:
				return false
			}
		}
	}
	return breaks > 0
}

// AddParagraph appends an empty paragraph at the end of the body.
func (d *Document) AddParagraph() *Paragraph {
	p := etree.NewElement("w:p")
	d.appendToBody(p)
	return &Paragraph{el: p, doc: d}
}

// appendToBody inserts el as the last body child before w:sectPr.
func (d *Document) appendToBody(el *etree.Element) {
	if sect := d.body.SelectElement("w:sectPr"); sect != nil {
		d.body.InsertChildAt(sect.Index(), el)
		return
	}
	d.body.AddChild(el)
}

// bodyContent returns the body children other than the final w:sectPr.
func (d *Document) bodyContent() []*etree.Element {
	var out []*etree.Element
	for _, el := range d.body.ChildElements() {
		if el.Space == "w" && el.Tag == "sectPr" {
			continue
		}
		out = append(out, el)
	}
	return out
}

// nextDocPrID returns a drawing id not used elsewhere in the document.
func (d *Document) nextDocPrID() int {
	d.maxDoc++
	return d.maxDoc
}
