// Package format provides file format detection for report inputs and outputs.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a file format the reports read or write.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// BMP indicates a Windows bitmap, used for detrended observations.
	BMP
	// TIFF indicates a TIFF or GeoTIFF raster.
	TIFF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// EPS indicates an Encapsulated PostScript plot.
	EPS
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case EPS:
		return "EPS"
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tif"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case EPS:
		return ".eps"
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	default:
		return ""
	}
}

// IsRaster reports whether the format is a raster image Go can decode.
func (f Format) IsRaster() bool {
	switch f {
	case BMP, TIFF, PNG, JPEG:
		return true
	default:
		return false
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".eps", ".ps":
		return EPS
	case ".docx":
		return DOCX
	case ".xlsx":
		return XLSX
	default:
		return Unknown
	}
}

var (
	magicPNG    = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG   = []byte{0xFF, 0xD8, 0xFF}
	magicTIFFLE = []byte("II*\x00")
	magicTIFFBE = []byte("MM\x00*")
	magicPS     = []byte("%!PS")
	magicDOSEPS = []byte{0xC5, 0xD0, 0xD3, 0xC6}
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicBMP    = []byte("BM")
)

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return PNG
	case bytes.HasPrefix(data, magicJPEG):
		return JPEG
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return TIFF
	case bytes.HasPrefix(data, magicPS), bytes.HasPrefix(data, magicDOSEPS):
		return EPS
	case bytes.HasPrefix(data, magicZIP):
		// Could be DOCX or XLSX
		// Return Unknown here - caller should use DetectFromReader for ZIP files
		return Unknown
	case len(data) >= 14 && bytes.HasPrefix(data, magicBMP):
		return BMP
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection and can
// distinguish between the ZIP-based formats (DOCX, XLSX).
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 16)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, magicZIP) {
		// It's a ZIP archive - check contents to determine specific format
		return detectZIPFormat(r, size)
	}

	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX or XLSX.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// Check for Office Open XML markers
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			// This is an OOXML file - check for specific format markers
			continue
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		}
	}

	return Unknown, nil
}
