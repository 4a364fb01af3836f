// Package format detects the kind of source document a file holds.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// HTML indicates an HTML document.
	HTML
	// Markdown indicates a Markdown document.
	Markdown
	// Image indicates a raster image (PNG, JPEG, TIFF or BMP) to be recognized with OCR.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case HTML:
		return "HTML"
	case Markdown:
		return "Markdown"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case HTML:
		return ".html"
	case Markdown:
		return ".md"
	case Image:
		return ".png"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".md", ".markdown", ".mdown":
		return Markdown
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return Image
	default:
		return Unknown
	}
}

// imageMagic lists the signatures of the supported image encodings
var imageMagic = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"),
	{0xFF, 0xD8, 0xFF},
	[]byte("II*\x00"),
	[]byte("MM\x00*"),
}

// DetectFromMagic checks file magic bytes to determine format.
// Markdown has no signature, so it is never reported here.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	for _, magic := range imageMagic {
		if bytes.HasPrefix(data, magic) {
			return Image
		}
	}
	// BMP: "BM", file size, then four reserved zero bytes
	if len(data) >= 10 && bytes.HasPrefix(data, []byte("BM")) && bytes.Equal(data[6:10], []byte{0, 0, 0, 0}) {
		return Image
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper[:min(500, len(upper))], "<HTML") {
		return true
	}

	return false
}

// DetectFromReader inspects the first bytes of the content to determine
// format. This is more reliable than extension-based detection.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile combines both methods: content wins when it is recognized,
// otherwise the extension decides.
func DetectFile(filename string, r io.ReaderAt) (Format, error) {
	f, err := DetectFromReader(r)
	if err != nil {
		return Unknown, err
	}
	if f != Unknown {
		return f, nil
	}
	return Detect(filename), nil
}
