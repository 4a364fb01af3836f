package format

import (
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{HTML, "HTML"},
		{Markdown, "Markdown"},
		{Image, "Image"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{HTML, ".html"},
		{Markdown, ".md"},
		{Image, ".png"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.pdf", PDF},
		{"document.PDF", PDF},
		{"document.Pdf", PDF},
		{"document.html", HTML},
		{"document.HTML", HTML},
		{"document.htm", HTML},
		{"document.xhtml", HTML},
		{"README.md", Markdown},
		{"notes.markdown", Markdown},
		{"scan.png", Image},
		{"scan.JPG", Image},
		{"scan.jpeg", Image},
		{"fax.tiff", Image},
		{"fax.tif", Image},
		{"old.bmp", Image},
		{"document.txt", Unknown},
		{"document.docx", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.pdf", PDF},
		{"/path/to/file.md", Markdown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "PDF magic bytes",
			data: []byte("%PDF-1.4"),
			want: PDF,
		},
		{
			name: "PDF minimal",
			data: []byte("%PDF"),
			want: PDF,
		},
		{
			name: "PNG",
			data: []byte("\x89PNG\r\n\x1a\n\x00\x00"),
			want: Image,
		},
		{
			name: "JPEG",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0},
			want: Image,
		},
		{
			name: "TIFF little endian",
			data: []byte("II*\x00\x08\x00"),
			want: Image,
		},
		{
			name: "TIFF big endian",
			data: []byte("MM\x00*\x00\x00"),
			want: Image,
		},
		{
			name: "BMP",
			data: []byte("BM\x36\x00\x00\x00\x00\x00\x00\x00"),
			want: Image,
		},
		{
			name: "HTML with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HTML,
		},
		{
			name: "HTML with html tag",
			data: []byte("<html><head>"),
			want: HTML,
		},
		{
			name: "HTML with whitespace before DOCTYPE",
			data: []byte("  \n  <!DOCTYPE HTML PUBLIC"),
			want: HTML,
		},
		{
			name: "XHTML",
			data: []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`),
			want: HTML,
		},
		{
			name: "text starting with BM",
			data: []byte("BMW owners manual"),
			want: Unknown,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "markdown has no signature",
			data: []byte("# Heading\n\nText"),
			want: Unknown,
		},
		{
			name: "random data",
			data: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"PDF", "%PDF-1.4\n%%EOF", PDF},
		{"HTML", "<!DOCTYPE html>\n<html><head><title>Test</title></head><body></body></html>", HTML},
		{"plain text", "Hello, World! This is plain text.", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader([]byte(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     Format
	}{
		{"content wins over extension", "misnamed.md", "%PDF-1.7", PDF},
		{"extension for markdown", "notes.md", "# Notes", Markdown},
		{"unknown", "notes.txt", "plain", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFile(tt.filename, bytes.NewReader([]byte(tt.data)))
			if err != nil {
				t.Fatalf("DetectFile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFile() = %v, want %v", got, tt.want)
			}
		})
	}
}
