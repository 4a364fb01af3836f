package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/ccitt"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// ErrEmptyImage is returned for images without pixels
var ErrEmptyImage = errors.New("image has no pixels")

// DecodeImage decodes a scanned page in PNG, JPEG, TIFF or BMP format.
// It returns the image and the name of its format.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, format, ErrEmptyImage
	}
	return img, format, nil
}

// PrepareConfig holds configuration for image preparation
type PrepareConfig struct {
	// SourceDPI is the resolution the image was scanned at.
	// Zero means unknown, in which case the image is not resampled.
	SourceDPI int

	// TargetDPI is the resolution recognition works best at
	// Default: 300
	TargetDPI int

	// MaxDimension caps the longer side after resampling
	// Default: 8000
	MaxDimension int
}

// DefaultPrepareConfig returns sensible default configuration
func DefaultPrepareConfig() PrepareConfig {
	return PrepareConfig{
		TargetDPI:    300,
		MaxDimension: 8000,
	}
}

// PrepareImage converts img to grayscale and resamples it to the target
// resolution with Catmull-Rom interpolation.
func PrepareImage(img image.Image, config PrepareConfig) (*image.Gray, error) {
	src := img.Bounds()
	if src.Empty() {
		return nil, ErrEmptyImage
	}

	scale := 1.0
	if config.SourceDPI > 0 && config.TargetDPI > 0 {
		scale = float64(config.TargetDPI) / float64(config.SourceDPI)
	}
	w := int(float64(src.Dx())*scale + 0.5)
	h := int(float64(src.Dy())*scale + 0.5)

	if limit := config.MaxDimension; limit > 0 && (w > limit || h > limit) {
		shrink := float64(limit) / float64(max(w, h))
		w = int(float64(w) * shrink)
		h = int(float64(h) * shrink)
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}
	return dst, nil
}

// EncodePNG encodes img as PNG, the format handed to the recognizer
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// FaxOptions describes a raw CCITT fax stream, as found in scanned PDFs
type FaxOptions struct {
	// Columns is the image width in pixels
	// Default: 1728
	Columns int

	// Rows is the image height in pixels and must be known
	Rows int

	// Group4 selects T.6 coding; otherwise the stream is T.4 (Group 3)
	Group4 bool

	// BlackIs1 inverts the bit interpretation
	BlackIs1 bool
}

// DecodeFax decodes a CCITT Group 3 or Group 4 stream into a grayscale image
func DecodeFax(data []byte, opts FaxOptions) (*image.Gray, error) {
	columns := opts.Columns
	if columns == 0 {
		columns = 1728
	}
	if columns < 0 || opts.Rows <= 0 {
		return nil, fmt.Errorf("invalid fax dimensions %dx%d", columns, opts.Rows)
	}

	sf := ccitt.Group3
	if opts.Group4 {
		sf = ccitt.Group4
	}

	dst := image.NewGray(image.Rect(0, 0, columns, opts.Rows))
	err := ccitt.DecodeIntoGray(dst, bytes.NewReader(data), ccitt.MSB, sf, &ccitt.Options{Invert: opts.BlackIs1})
	if err != nil {
		return nil, fmt.Errorf("failed to decode fax data: %w", err)
	}
	return dst, nil
}

// Paragraphs splits recognized text into paragraphs at blank lines.
// Lines within a paragraph are joined with a space.
func Paragraphs(text string) []string {
	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paras
}
