// Package pdfium extracts positioned characters from PDF pages using the
// PDFium WebAssembly build.
//
// Coordinates are PDF user space: the origin is the bottom-left corner of the
// page and Y increases upward.
package pdfium

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/tsawler/strata/model"
)

// ErrClosed is returned when an engine or document is used after Close
var ErrClosed = errors.New("pdfium: closed")

// Config holds configuration for the PDFium engine
type Config struct {
	// InstanceTimeout bounds how long to wait for a PDFium instance
	// Default: 30 seconds
	InstanceTimeout time.Duration

	// DefaultFontSize is reported for characters whose font size PDFium
	// cannot determine
	// Default: 12
	DefaultFontSize float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		InstanceTimeout: 30 * time.Second,
		DefaultFontSize: 12.0,
	}
}

// Engine owns a PDFium instance. An engine is not safe for concurrent use.
type Engine struct {
	config   Config
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewEngine starts a PDFium instance with default configuration
func NewEngine() (*Engine, error) {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig starts a PDFium instance with custom configuration
func NewEngineWithConfig(config Config) (*Engine, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing pdfium: %w", err)
	}

	instance, err := pool.GetInstance(config.InstanceTimeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("acquiring pdfium instance: %w", err)
	}

	return &Engine{
		config:   config,
		pool:     pool,
		instance: instance,
	}, nil
}

// Close releases the PDFium instance. It is safe to call Close multiple times.
func (e *Engine) Close() error {
	if e == nil || e.pool == nil {
		return nil
	}
	var errs []error
	if e.instance != nil {
		errs = append(errs, e.instance.Close())
		e.instance = nil
	}
	errs = append(errs, e.pool.Close())
	e.pool = nil
	return errors.Join(errs...)
}

// Open opens a PDF file
func (e *Engine) Open(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return e.OpenReader(f)
}

// OpenReader reads a PDF document from r
func (e *Engine) OpenReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	return e.OpenBytes(data)
}

// OpenBytes opens a PDF document held in memory. The engine must outlive
// the returned document.
func (e *Engine) OpenBytes(data []byte) (*Document, error) {
	if e == nil || e.instance == nil {
		return nil, ErrClosed
	}
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("opening pdf document: %w", err)
	}
	return &Document{
		engine: e,
		doc:    doc.Document,
		open:   true,
	}, nil
}

// Page is the extracted content of one PDF page
type Page struct {
	// Number is the 1-based page number
	Number int

	// BBox is the page box, anchored at the origin
	BBox model.BBox

	// Characters in the order PDFium reports them
	Characters []model.Character
}

// Document is an open PDF document
type Document struct {
	engine *Engine
	doc    references.FPDF_DOCUMENT
	open   bool
}

// Close releases the document. It is safe to call Close multiple times.
func (d *Document) Close() error {
	if d == nil || !d.open {
		return nil
	}
	d.open = false
	if d.engine.instance == nil {
		return nil
	}
	_, err := d.engine.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.doc,
	})
	return err
}

func (d *Document) pdfium() (pdfium.Pdfium, error) {
	if d == nil || !d.open || d.engine.instance == nil {
		return nil, ErrClosed
	}
	return d.engine.instance, nil
}

// PageCount returns the number of pages
func (d *Document) PageCount() (int, error) {
	instance, err := d.pdfium()
	if err != nil {
		return 0, err
	}
	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: d.doc,
	})
	if err != nil {
		return 0, fmt.Errorf("getting page count: %w", err)
	}
	return count.PageCount, nil
}

// Pages extracts every page in order
func (d *Document) Pages() ([]Page, error) {
	count, err := d.PageCount()
	if err != nil {
		return nil, err
	}
	pages := make([]Page, 0, count)
	for i := 1; i <= count; i++ {
		page, err := d.Page(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Page extracts the page with the given 1-based number
func (d *Document) Page(number int) (Page, error) {
	instance, err := d.pdfium()
	if err != nil {
		return Page{}, err
	}

	pageResp, err := instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    number - 1,
	})
	if err != nil {
		return Page{}, fmt.Errorf("loading page %d: %w", number, err)
	}
	defer instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	page, err := extractPage(instance, pageResp.Page, d.engine.config)
	if err != nil {
		return Page{}, fmt.Errorf("extracting page %d: %w", number, err)
	}
	page.Number = number
	return page, nil
}

func extractPage(instance pdfium.Pdfium, page references.FPDF_PAGE, config Config) (Page, error) {
	width, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return Page{}, fmt.Errorf("getting page width: %w", err)
	}
	height, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return Page{}, fmt.Errorf("getting page height: %w", err)
	}

	result := Page{
		BBox: model.NewBBox(0, 0, float64(width.PageWidth), float64(height.PageHeight)),
	}

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return Page{}, fmt.Errorf("loading text page: %w", err)
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	count, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return Page{}, fmt.Errorf("counting characters: %w", err)
	}

	result.Characters = extractCharacters(instance, textPage.TextPage, count.Count, config)
	return result, nil
}

// extractCharacters reads every character of a text page. Line breaks
// PDFium generates between text objects are dropped; spaces without a box
// of their own are placed at the right edge of the preceding character.
func extractCharacters(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, config Config) []model.Character {
	chars := make([]model.Character, 0, count)
	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}
		r := rune(unicodeRes.Unicode)
		if r == '\r' || r == '\n' || (unicode.IsControl(r) && r != '\t') {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}
		box := model.NewBBoxFromEdges(charBox.Left, charBox.Bottom, charBox.Right, charBox.Top)

		fontSize := config.DefaultFontSize
		if size, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		}); err == nil && size.FontSize > 0 {
			fontSize = size.FontSize
		}

		origin := model.Point{X: box.X, Y: box.Y}
		if o, err := instance.FPDFText_GetCharOrigin(&requests.FPDFText_GetCharOrigin{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			origin = model.Point{X: o.X, Y: o.Y}
		}

		if box.Width == 0 && box.Height == 0 {
			if !unicode.IsSpace(r) || len(chars) == 0 {
				continue
			}
			prev := chars[len(chars)-1]
			box = model.NewBBox(prev.BBox.Right(), prev.BBox.Y, 0, prev.BBox.Height)
			origin = model.Point{X: prev.BBox.Right(), Y: prev.Position.Y}
		}

		bold, italic := fontStyle(instance, textPage, i)
		chars = append(chars, model.Character{
			Text:     string(r),
			Position: origin,
			FontSize: fontSize,
			BBox:     box,
			Bold:     bold,
			Italic:   italic,
		})
	}
	return chars
}

// Font descriptor flags, PDF 32000-1 table 123
const (
	fontFlagItalic    = 1 << 6
	fontFlagForceBold = 1 << 18
)

// fontStyle reports whether character i is set in a bold or italic font,
// from the font weight, the descriptor flags and the font name.
func fontStyle(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, i int) (bold, italic bool) {
	if weight, err := instance.FPDFText_GetFontWeight(&requests.FPDFText_GetFontWeight{
		TextPage: textPage,
		Index:    i,
	}); err == nil && weight.FontWeight >= 700 {
		bold = true
	}

	info, err := instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
		TextPage: textPage,
		Index:    i,
	})
	if err != nil {
		return bold, italic
	}
	name := strings.ToLower(info.FontName)
	bold = bold || info.Flags&fontFlagForceBold != 0 || strings.Contains(name, "bold")
	italic = info.Flags&fontFlagItalic != 0 || strings.Contains(name, "italic") || strings.Contains(name, "oblique")
	return bold, italic
}
