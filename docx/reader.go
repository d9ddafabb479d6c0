// Package docx edits Word (Office Open XML) documents in place.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
)

var relIDPattern = regexp.MustCompile(`^rId(\d+)$`)

// Open opens a DOCX file for editing.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	d, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	d.source = filename
	return d, nil
}

// Read loads a DOCX package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	d := &Document{
		parts: make(map[string][]byte, len(zr.File)),
		media: make(map[string]string),
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		d.parts[f.Name] = content
		d.order = append(d.order, f.Name)
	}

	// Validate required files exist
	if err := d.validate(); err != nil {
		return nil, err
	}

	if d.types, err = parsePart(d.parts[partContentTypes]); err != nil {
		return nil, fmt.Errorf("parsing content types: %w", err)
	}

	if d.main, err = parsePart(d.parts[partDocument]); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	if root := d.main.Root(); root.Tag == "document" {
		d.body = root.SelectElement("w:body")
	}
	if d.body == nil {
		return nil, fmt.Errorf("parsing document: missing w:body")
	}

	// Relationships are optional in a minimal package
	if data, ok := d.parts[partDocumentRels]; ok {
		if d.rels, err = parsePart(data); err != nil {
			return nil, fmt.Errorf("parsing relationships: %w", err)
		}
	} else {
		d.rels = newRelationships()
		d.order = append(d.order, partDocumentRels)
	}

	d.scanIDs()
	return d, nil
}

// validate checks that required DOCX files exist.
func (d *Document) validate() error {
	required := []string{
		partContentTypes,
		partDocument,
	}

	for _, name := range required {
		if _, ok := d.parts[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// scanIDs records the highest drawing and relationship ids in use.
func (d *Document) scanIDs() {
	for _, el := range d.main.FindElements("//wp:docPr") {
		if id, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && id > d.maxDoc {
			d.maxDoc = id
		}
	}

	for _, rel := range d.rels.Root().SelectElements("Relationship") {
		m := relIDPattern.FindStringSubmatch(rel.SelectAttrValue("Id", ""))
		if m == nil {
			continue
		}
		if n, _ := strconv.Atoi(m[1]); n > d.maxRel {
			d.maxRel = n
		}
	}
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func parsePart(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("empty XML part")
	}
	return doc, nil
}

func newRelationships() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsPkg)
	return doc
}
