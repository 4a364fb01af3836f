// Package strata infers document structure from positioned text.
//
// A page's characters are merged into text blocks, the blocks' font sizes
// are clustered into heading levels, and the resulting headings and
// paragraphs are nested together with externally detected tables, images
// and lists into a model.DocumentStructure.
//
// Basic usage:
//
//	result, err := strata.New().ProcessPage(strata.PageInput{
//	    Number:     1,
//	    BBox:       model.NewBBox(0, 0, 612, 792),
//	    Characters: chars,
//	})
//
// Whole files can be processed with the fluent Extractor:
//
//	doc, err := strata.Open("report.pdf").KClusters(4).Structure(ctx)
package strata

import (
	"log/slog"

	"github.com/tsawler/strata/ocr"
)

// Processor runs the extraction pipeline. Configuration methods return a new
// Processor, so a Processor is safe for concurrent use.
type Processor struct {
	config Config
	logger *slog.Logger
}

// New creates a processor with default configuration
func New() *Processor {
	return &Processor{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
}

// NewWithConfig creates a processor with custom configuration
func NewWithConfig(config Config) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Processor{
		config: config.clone(),
		logger: slog.Default(),
	}, nil
}

// Config returns a copy of the processor's configuration
func (p *Processor) Config() Config {
	return p.config.clone()
}

func (p *Processor) clone() *Processor {
	return &Processor{
		config: p.config.clone(),
		logger: p.logger,
	}
}

// WithKClusters sets the requested number of font-size clusters.
// Values outside 2..10 make processing fail with ErrInvalidConfig.
func (p *Processor) WithKClusters(k int) *Processor {
	newProc := p.clone()
	newProc.config.KClusters = k
	return newProc
}

// WithOCRThreshold flags pages whose text covers less than t of the page
func (p *Processor) WithOCRThreshold(t float64) *Processor {
	newProc := p.clone()
	newProc.config.OCRCoverageThreshold = &t
	return newProc
}

// WithoutBBox omits bounding boxes from the output
func (p *Processor) WithoutBBox() *Processor {
	newProc := p.clone()
	newProc.config.IncludeBBox = false
	return newProc
}

// WithoutHierarchy disables font-size clustering
func (p *Processor) WithoutHierarchy() *Processor {
	newProc := p.clone()
	newProc.config.Enabled = false
	return newProc
}

// WithLayerDetection classifies page furniture into header, footer and
// footnote layers
func (p *Processor) WithLayerDetection() *Processor {
	newProc := p.clone()
	newProc.config.DetectLayers = true
	return newProc
}

// WithLogger sets the logger used for per-page diagnostics
func (p *Processor) WithLogger(logger *slog.Logger) *Processor {
	newProc := p.clone()
	if logger == nil {
		logger = slog.Default()
	}
	newProc.logger = logger
	return newProc
}

func (p *Processor) coverageEvaluator() *ocr.CoverageEvaluator {
	return ocr.NewCoverageEvaluator(p.config.OCRCoverageThreshold)
}
