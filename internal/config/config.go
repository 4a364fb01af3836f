// Package config loads command line settings from a YAML file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/strata"
	"github.com/tsawler/strata/htmldoc"
	"github.com/tsawler/strata/layout"
)

// Settings is a parsed and validated configuration file
type Settings struct {
	// Processor is the pipeline configuration, defaults overlaid with the
	// file's hierarchy and merge sections
	Processor strata.Config

	// Navigation controls HTML navigation exclusion
	Navigation htmldoc.NavigationExclusionMode

	// OCRLanguage and SourceDPI configure image recognition
	OCRLanguage string
	SourceDPI   int
}

// Default returns the settings used when no file is given
func Default() *Settings {
	return &Settings{
		Processor:  strata.DefaultConfig(),
		Navigation: htmldoc.NavigationExclusionStandard,
	}
}

type configFile struct {
	Hierarchy hierarchyConfig `yaml:"hierarchy"`
	Merge     mergeConfig     `yaml:"merge"`
	HTML      htmlConfig      `yaml:"html"`
	OCR       ocrConfig       `yaml:"ocr"`
}

type hierarchyConfig struct {
	Enabled              *bool    `yaml:"enabled"`
	KClusters            *int     `yaml:"k_clusters"`
	IncludeBBox          *bool    `yaml:"include_bbox"`
	OCRCoverageThreshold *float64 `yaml:"ocr_coverage_threshold"`
	DetectLayers         *bool    `yaml:"detect_layers"`
	Levels               string   `yaml:"levels"`
	Concurrency          *int     `yaml:"concurrency"`
}

type mergeConfig struct {
	HorizontalGapRatio *float64 `yaml:"horizontal_gap_ratio"`
	VerticalGapRatio   *float64 `yaml:"vertical_gap_ratio"`
	OverlapThreshold   *float64 `yaml:"overlap_threshold"`
	HorizontalWeight   *float64 `yaml:"horizontal_weight"`
	VerticalWeight     *float64 `yaml:"vertical_weight"`
	MaxOpenBlocks      *int     `yaml:"max_open_blocks"`
	NormalizeText      *bool    `yaml:"normalize_text"`
}

type htmlConfig struct {
	Navigation string `yaml:"navigation"`
}

type ocrConfig struct {
	Language  string `yaml:"language"`
	SourceDPI int    `yaml:"source_dpi"`
}

// Parse reads the file at path. Environment variables in the file are
// expanded and unknown keys are rejected.
func Parse(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes parses configuration held in memory
func ParseBytes(data []byte) (*Settings, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var file configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	// An empty document decodes to EOF
	if err := decoder.Decode(&file); err != nil && len(bytes.TrimSpace(data)) > 0 {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	s := Default()
	if err := s.applyHierarchy(file.Hierarchy); err != nil {
		return nil, err
	}
	s.applyMerge(file.Merge)

	if file.HTML.Navigation != "" {
		mode, ok := htmldoc.ParseNavigationExclusionMode(file.HTML.Navigation)
		if !ok {
			return nil, fmt.Errorf("%w: unknown html navigation mode %q", strata.ErrInvalidConfig, file.HTML.Navigation)
		}
		s.Navigation = mode
	}

	s.OCRLanguage = file.OCR.Language
	s.SourceDPI = file.OCR.SourceDPI
	if s.SourceDPI < 0 {
		return nil, fmt.Errorf("%w: negative ocr source_dpi %d", strata.ErrInvalidConfig, s.SourceDPI)
	}

	if err := s.Processor.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyHierarchy(h hierarchyConfig) error {
	c := &s.Processor
	if h.Enabled != nil {
		c.Enabled = *h.Enabled
	}
	if h.KClusters != nil {
		c.KClusters = *h.KClusters
	}
	if h.IncludeBBox != nil {
		c.IncludeBBox = *h.IncludeBBox
	}
	if h.OCRCoverageThreshold != nil {
		t := *h.OCRCoverageThreshold
		c.OCRCoverageThreshold = &t
	}
	if h.DetectLayers != nil {
		c.DetectLayers = *h.DetectLayers
	}
	if h.Concurrency != nil {
		c.Concurrency = *h.Concurrency
	}

	switch h.Levels {
	case "":
	case layout.RankLevels.String():
		c.Levels = layout.RankLevels
	case layout.FrequencyLevels.String():
		c.Levels = layout.FrequencyLevels
	default:
		return fmt.Errorf("%w: unknown hierarchy levels strategy %q", strata.ErrInvalidConfig, h.Levels)
	}
	return nil
}

func (s *Settings) applyMerge(m mergeConfig) {
	c := &s.Processor.Merge
	if m.HorizontalGapRatio != nil {
		c.HorizontalGapRatio = *m.HorizontalGapRatio
	}
	if m.VerticalGapRatio != nil {
		c.VerticalGapRatio = *m.VerticalGapRatio
	}
	if m.OverlapThreshold != nil {
		c.OverlapThreshold = *m.OverlapThreshold
	}
	if m.HorizontalWeight != nil {
		c.HorizontalWeight = *m.HorizontalWeight
	}
	if m.VerticalWeight != nil {
		c.VerticalWeight = *m.VerticalWeight
	}
	if m.MaxOpenBlocks != nil {
		c.MaxOpenBlocks = *m.MaxOpenBlocks
	}
	if m.NormalizeText != nil {
		c.NormalizeText = *m.NormalizeText
	}
}
