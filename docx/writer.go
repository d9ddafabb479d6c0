package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Save writes the document to a file, creating parent directories as needed.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := d.Write(f)
	closeErr := f.Close()

	if writeErr != nil {
		// Attempt cleanup on write failure
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// Write writes the document as a DOCX package to w.
func (d *Document) Write(w io.Writer) error {
	if err := d.flush(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, name := range d.order {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := fw.Write(d.parts[name]); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return zw.Close()
}

// flush serializes the edited trees back into their parts.
func (d *Document) flush() error {
	trees := []struct {
		name string
		doc  interface{ WriteToBytes() ([]byte, error) }
	}{
		{partDocument, d.main},
		{partDocumentRels, d.rels},
		{partContentTypes, d.types},
	}

	for _, t := range trees {
		data, err := t.doc.WriteToBytes()
		if err != nil {
			return fmt.Errorf("serializing %s: %w", t.name, err)
		}
		d.setPart(t.name, data)
	}
	return nil
}

// setPart stores a part, keeping the original entry order for existing parts.
func (d *Document) setPart(name string, data []byte) {
	if _, ok := d.parts[name]; !ok {
		found := false
		for _, n := range d.order {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			d.order = append(d.order, name)
		}
	}
	d.parts[name] = data
}
