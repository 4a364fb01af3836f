package strata

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/tsawler/strata/format"
	"github.com/tsawler/strata/htmldoc"
	"github.com/tsawler/strata/mddoc"
	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/ocr"
	"github.com/tsawler/strata/pdfium"
	"github.com/tsawler/strata/structure"
)

// Extractor provides a fluent interface for extracting structure from PDF,
// HTML, Markdown and image files. Each configuration method returns a new
// Extractor instance, making it safe for concurrent use and allowing method
// chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Configuration
	processor  *Processor
	pages      []int
	navigation htmldoc.NavigationExclusionMode
	emitTitle  bool
	language   string
	sourceDPI  int
	fax        *ocr.FaxOptions
}

// Open creates an Extractor for a file. Nothing is read until a terminal
// operation such as Structure runs.
//
// Example:
//
//	doc, err := strata.Open("document.pdf").Structure(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename:   filename,
		processor:  New(),
		navigation: htmldoc.NavigationExclusionStandard,
	}
}

// clone creates a shallow copy of the Extractor with deep copies of its
// slices, so each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	newExt := *e
	newExt.pages = append([]int(nil), e.pages...)
	if e.fax != nil {
		fax := *e.fax
		newExt.fax = &fax
	}
	return &newExt
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which PDF pages to extract from (1-indexed).
// Multiple calls are cumulative.
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.pages = append(newExt.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for p := start; p <= end; p++ {
		newExt.pages = append(newExt.pages, p)
	}
	return newExt
}

// Format overrides format detection
func (e *Extractor) Format(f format.Format) *Extractor {
	newExt := e.clone()
	newExt.format = f
	return newExt
}

// Processor replaces the pipeline configuration
func (e *Extractor) Processor(p *Processor) *Extractor {
	newExt := e.clone()
	newExt.processor = p
	return newExt
}

// KClusters sets the requested number of font-size clusters
func (e *Extractor) KClusters(k int) *Extractor {
	newExt := e.clone()
	newExt.processor = e.processor.WithKClusters(k)
	return newExt
}

// OCRThreshold flags pages whose text covers less than t of the page
func (e *Extractor) OCRThreshold(t float64) *Extractor {
	newExt := e.clone()
	newExt.processor = e.processor.WithOCRThreshold(t)
	return newExt
}

// DetectLayers classifies page furniture into header, footer and footnote layers
func (e *Extractor) DetectLayers() *Extractor {
	newExt := e.clone()
	newExt.processor = e.processor.WithLayerDetection()
	return newExt
}

// Logger sets the logger for diagnostics
func (e *Extractor) Logger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.processor = e.processor.WithLogger(logger)
	return newExt
}

// Navigation sets how HTML navigation regions are excluded
func (e *Extractor) Navigation(mode htmldoc.NavigationExclusionMode) *Extractor {
	newExt := e.clone()
	newExt.navigation = mode
	return newExt
}

// EmitTitle adds the HTML <title> as the document's Title node
func (e *Extractor) EmitTitle() *Extractor {
	newExt := e.clone()
	newExt.emitTitle = true
	return newExt
}

// Language sets the OCR language, e.g. "eng" or "deu+eng"
func (e *Extractor) Language(lang string) *Extractor {
	newExt := e.clone()
	newExt.language = lang
	return newExt
}

// SourceDPI sets the scan resolution of an image so it can be resampled
// before recognition
func (e *Extractor) SourceDPI(dpi int) *Extractor {
	newExt := e.clone()
	newExt.sourceDPI = dpi
	return newExt
}

// Fax treats the file as raw CCITT fax data to be recognized with OCR
func (e *Extractor) Fax(opts ocr.FaxOptions) *Extractor {
	newExt := e.clone()
	newExt.fax = &opts
	newExt.format = format.Image
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document runs the pipeline and returns per-page results (PDF only) and
// the combined structure.
func (e *Extractor) Document(ctx context.Context) (*DocumentResult, error) {
	f, err := e.detectFormat()
	if err != nil {
		return nil, err
	}

	switch f {
	case format.PDF:
		return e.pdfDocument(ctx)
	case format.HTML:
		return e.singlePage(func() (*model.DocumentStructure, error) {
			r, err := e.openHTML()
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return r.Structure()
		})
	case format.Markdown:
		return e.singlePage(func() (*model.DocumentStructure, error) {
			r, err := mddoc.Open(e.filename)
			if err != nil {
				return nil, fmt.Errorf("failed to open Markdown: %w", err)
			}
			return r.Structure()
		})
	case format.Image:
		return e.singlePage(func() (*model.DocumentStructure, error) {
			return e.imageStructure(ctx)
		})
	default:
		return nil, fmt.Errorf("unsupported file format: %s", f)
	}
}

// Structure runs the pipeline and returns the document structure
func (e *Extractor) Structure(ctx context.Context) (*model.DocumentStructure, error) {
	result, err := e.Document(ctx)
	if err != nil {
		return nil, err
	}
	return result.Structure, nil
}

// Markdown runs the pipeline and renders the structure as Markdown
func (e *Extractor) Markdown(ctx context.Context) (string, error) {
	return e.MarkdownWithOptions(ctx, structure.DefaultMarkdownOptions())
}

// MarkdownWithOptions runs the pipeline and renders the structure with
// custom options
func (e *Extractor) MarkdownWithOptions(ctx context.Context, opts structure.MarkdownOptions) (string, error) {
	doc, err := e.Structure(ctx)
	if err != nil {
		return "", err
	}
	return structure.RenderMarkdownWithOptions(doc, opts), nil
}

// PageCount returns the number of pages in the source. Formats without
// pages count as one.
func (e *Extractor) PageCount() (int, error) {
	f, err := e.detectFormat()
	if err != nil {
		return 0, err
	}
	if f != format.PDF {
		return 1, nil
	}

	engine, err := pdfium.NewEngine()
	if err != nil {
		return 0, err
	}
	defer engine.Close()

	doc, err := engine.Open(e.filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()
	return doc.PageCount()
}

// ============================================================================
// Helpers
// ============================================================================

func (e *Extractor) detectFormat() (format.Format, error) {
	if e.filename == "" {
		return format.Unknown, fmt.Errorf("no filename specified")
	}
	if e.format != format.Unknown {
		return e.format, nil
	}

	f, err := os.Open(e.filename)
	if err != nil {
		return format.Unknown, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	detected, err := format.DetectFile(e.filename, f)
	if err != nil {
		return format.Unknown, fmt.Errorf("detecting format: %w", err)
	}
	return detected, nil
}

// singlePage wraps the structure of a pageless source
func (e *Extractor) singlePage(build func() (*model.DocumentStructure, error)) (*DocumentResult, error) {
	if _, err := resolvePages(e.pages, 1); err != nil {
		return nil, err
	}
	doc, err := build()
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Structure: doc}, nil
}

func (e *Extractor) openHTML() (*htmldoc.Reader, error) {
	f, err := os.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML: %w", err)
	}
	defer f.Close()

	opts := htmldoc.DefaultOptions()
	opts.Navigation = e.navigation
	opts.EmitTitle = e.emitTitle
	return htmldoc.OpenReaderWithOptions(f, opts)
}

func (e *Extractor) pdfDocument(ctx context.Context) (*DocumentResult, error) {
	engine, err := pdfium.NewEngine()
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	doc, err := engine.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	count, err := doc.PageCount()
	if err != nil {
		return nil, err
	}
	numbers, err := resolvePages(e.pages, count)
	if err != nil {
		return nil, err
	}

	// PDFium is single threaded; pages are read in order and processed in parallel
	inputs := make([]PageInput, 0, len(numbers))
	for _, n := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Page(n)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, PageInput{
			Number:     page.Number,
			BBox:       page.BBox,
			Characters: page.Characters,
			PageCount:  count,
		})
	}

	result, err := e.processor.ProcessDocument(ctx, inputs)
	if err != nil {
		return nil, err
	}
	for _, n := range result.OCRPages() {
		e.processor.logger.Warn("page has little extractable text, OCR recommended", "file", e.filename, "page", n)
	}
	return result, nil
}

func (e *Extractor) imageStructure(ctx context.Context) (*model.DocumentStructure, error) {
	img, err := e.loadImage()
	if err != nil {
		return nil, err
	}

	config := ocr.DefaultPrepareConfig()
	config.SourceDPI = e.sourceDPI
	prepared, err := ocr.PrepareImage(img, config)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if e.language != "" {
		if err := client.SetLanguage(e.language); err != nil {
			return nil, err
		}
	}

	text, err := client.RecognizePage(prepared)
	if err != nil {
		return nil, fmt.Errorf("recognizing %s: %w", e.filename, err)
	}
	e.processor.logger.Debug("recognized image",
		"file", e.filename,
		"width", prepared.Bounds().Dx(),
		"height", prepared.Bounds().Dy(),
		"chars", len(text),
	)
	return RecognizedStructure(text)
}

func (e *Extractor) loadImage() (image.Image, error) {
	f, err := os.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if e.fax != nil {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("reading fax data: %w", err)
		}
		return ocr.DecodeFax(data, *e.fax)
	}

	img, _, err := ocr.DecodeImage(f)
	return img, err
}

// RecognizedStructure turns OCR output into a single-page structure with one
// paragraph per block of text.
func RecognizedStructure(text string) (*model.DocumentStructure, error) {
	var items []structure.Item
	for _, para := range ocr.Paragraphs(text) {
		items = append(items, structure.NewItem(model.Paragraph{Text: para}, 1))
	}
	return structure.NewBuilderWithConfig(structure.BuilderConfig{
		PageCount: 1,
		AssignIDs: true,
	}).Build(items)
}

// resolvePages validates 1-indexed page numbers against count and returns
// them sorted without duplicates. No pages means all pages.
func resolvePages(pages []int, count int) ([]int, error) {
	if len(pages) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, p := range pages {
		if p < 1 || p > count {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, count)
		}
		if !seen[p] {
			seen[p] = true
			numbers = append(numbers, p)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}
