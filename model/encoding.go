package model

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding returns the text encoding registered under name. Names are
// the WHATWG labels ("utf-8", "big5", "gbk", "shift_jis", ...). An empty name
// means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", name, err)
	}
	return enc, nil
}

// NewDecoder wraps r so that reading from it yields UTF-8 text.
func NewDecoder(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == unicode.UTF8 {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

type decodedFile struct {
	io.Reader
	f *os.File
}

func (d *decodedFile) Close() error {
	return d.f.Close()
}

// OpenFile opens a text file for reading through the named encoding.
func OpenFile(path, encodingName string) (io.ReadCloser, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &decodedFile{Reader: NewDecoder(f, enc), f: f}, nil
}
