package layout

import (
	"regexp"
	"strings"

	"github.com/tsawler/strata/model"
)

// LayerConfig holds configuration for content layer classification
type LayerConfig struct {
	// HeaderRegionHeight is the height from top of page to consider as header zone
	// Default: 72 points (1 inch)
	HeaderRegionHeight float64

	// FooterRegionHeight is the height from bottom of page to consider as footer zone
	// Default: 72 points (1 inch)
	FooterRegionHeight float64

	// FootnoteRegionRatio is the fraction of the page height, measured from the
	// bottom, in which footnotes may appear
	// Default: 0.33
	FootnoteRegionRatio float64

	// FootnoteFontRatio is the largest footnote/body font size ratio
	// Default: 0.9
	FootnoteFontRatio float64
}

// DefaultLayerConfig returns sensible default configuration
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{
		HeaderRegionHeight:  72.0, // 1 inch
		FooterRegionHeight:  72.0, // 1 inch
		FootnoteRegionRatio: 0.33,
		FootnoteFontRatio:   0.9,
	}
}

// LayerClassifier assigns a content layer to each block of a page from its
// position and font size.
type LayerClassifier struct {
	config LayerConfig
}

// NewLayerClassifier creates a new classifier with default configuration
func NewLayerClassifier() *LayerClassifier {
	return &LayerClassifier{
		config: DefaultLayerConfig(),
	}
}

// NewLayerClassifierWithConfig creates a classifier with custom configuration
func NewLayerClassifierWithConfig(config LayerConfig) *LayerClassifier {
	return &LayerClassifier{
		config: config,
	}
}

// footnoteMarker matches the leading reference mark of a footnote
var footnoteMarker = regexp.MustCompile(`^\s*(\[?\d{1,3}[\].)]?\s|[*†‡§¶]|[¹²³⁴⁵⁶⁷⁸⁹⁰]+)`)

// pageNumberPattern matches a block holding only a page number
var pageNumberPattern = regexp.MustCompile(`(?i)^\s*(page\s+)?\d+(\s*(of|/)\s*\d+)?\s*$`)

// Classify returns the layer of each block. The page box is in the same
// coordinate space as the blocks, with Y increasing upward.
func (c *LayerClassifier) Classify(blocks []model.TextBlock, page model.BBox) []model.ContentLayer {
	layers := make([]model.ContentLayer, len(blocks))
	if len(blocks) == 0 || page.IsEmpty() {
		return layers
	}

	bodySize := BodyFontSize(blocks)
	footnoteTop := page.Bottom() + page.Height*c.config.FootnoteRegionRatio

	for i, b := range blocks {
		distFromTop := page.Top() - b.BBox.Bottom()
		distFromBottom := b.BBox.Top() - page.Bottom()

		switch {
		case distFromTop <= c.config.HeaderRegionHeight:
			layers[i] = model.LayerHeader
		case distFromBottom <= c.config.FooterRegionHeight:
			layers[i] = model.LayerFooter
		case pageNumberPattern.MatchString(b.Text) && b.BBox.Top() <= footnoteTop:
			layers[i] = model.LayerFooter
		case b.BBox.Top() <= footnoteTop &&
			bodySize > 0 && b.FontSize < bodySize*c.config.FootnoteFontRatio &&
			footnoteMarker.MatchString(b.Text):
			layers[i] = model.LayerFootnote
		default:
			layers[i] = model.LayerBody
		}
	}

	return layers
}

// BodyFontSize returns the font size carrying the most text on the page,
// counted in runes. Ties go to the smaller size.
func BodyFontSize(blocks []model.TextBlock) float64 {
	weight := make(map[float64]int)
	for _, b := range blocks {
		if isFinite(b.FontSize) && b.FontSize > 0 {
			weight[b.FontSize] += len([]rune(strings.TrimSpace(b.Text)))
		}
	}

	best, bestWeight := 0.0, -1
	for size, w := range weight {
		if w > bestWeight || (w == bestWeight && size < best) {
			best, bestWeight = size, w
		}
	}
	return best
}
