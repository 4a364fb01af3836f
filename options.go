package strata

import (
	"errors"
	"fmt"
	"math"

	"github.com/tsawler/strata/layout"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid configuration")

// Cluster count bounds accepted by Validate
const (
	MinKClusters = 2
	MaxKClusters = 10
)

// Config holds configuration for hierarchy extraction.
type Config struct {
	// Enabled turns on font-size clustering. When false every text block
	// becomes a paragraph and the page hierarchy is empty.
	// Default: true
	Enabled bool

	// KClusters is the requested number of font-size clusters (2..10)
	// Default: 6
	KClusters int

	// IncludeBBox copies block bounding boxes into the page hierarchy and
	// the document nodes
	// Default: true
	IncludeBBox bool

	// OCRCoverageThreshold is the text coverage below which a page is
	// flagged for OCR. Nil never flags a page.
	// Default: nil
	OCRCoverageThreshold *float64

	// DetectLayers classifies blocks in the page margins as header, footer
	// or footnote instead of body text
	// Default: false
	DetectLayers bool

	// Levels selects how cluster ranks become heading levels
	// Default: layout.RankLevels
	Levels layout.LevelStrategy

	// Merge, Cluster and Layers tune the underlying layout stages
	Merge   layout.MergeConfig
	Cluster layout.ClusterConfig
	Layers  layout.LayerConfig

	// Concurrency bounds how many pages ProcessDocument handles at once.
	// Zero uses GOMAXPROCS.
	// Default: 0
	Concurrency int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		KClusters:   6,
		IncludeBBox: true,
		Levels:      layout.RankLevels,
		Merge:       layout.DefaultMergeConfig(),
		Cluster:     layout.DefaultClusterConfig(),
		Layers:      layout.DefaultLayerConfig(),
	}
}

// Validate reports the first out-of-range value. Values are never clamped.
func (c Config) Validate() error {
	if c.KClusters < MinKClusters || c.KClusters > MaxKClusters {
		return fmt.Errorf("%w: k_clusters %d outside %d..%d", ErrInvalidConfig, c.KClusters, MinKClusters, MaxKClusters)
	}
	if t := c.OCRCoverageThreshold; t != nil && (math.IsNaN(*t) || *t < 0 || *t > 1) {
		return fmt.Errorf("%w: ocr_coverage_threshold %v outside [0,1]", ErrInvalidConfig, *t)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: negative concurrency %d", ErrInvalidConfig, c.Concurrency)
	}
	return nil
}

// clone creates a deep copy of Config.
func (c Config) clone() Config {
	newConfig := c
	if c.OCRCoverageThreshold != nil {
		t := *c.OCRCoverageThreshold
		newConfig.OCRCoverageThreshold = &t
	}
	return newConfig
}
