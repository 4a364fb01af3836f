package ocr

import (
	"github.com/tsawler/strata/model"
)

// Decision is the outcome of a coverage check for one page
type Decision struct {
	ShouldTriggerOCR bool    `json:"should_trigger_ocr"`
	Coverage         float64 `json:"coverage"`
}

// CoverageEvaluator decides whether a page carries so little extracted
// text that it is probably a scan and should be sent to OCR.
type CoverageEvaluator struct {
	// Threshold is the minimum fraction of the page area that text blocks
	// must cover. Nil disables OCR triggering entirely.
	Threshold *float64
}

// NewCoverageEvaluator creates an evaluator with the given threshold
func NewCoverageEvaluator(threshold *float64) *CoverageEvaluator {
	return &CoverageEvaluator{Threshold: threshold}
}

// Evaluate computes the fraction of page covered by blocks and compares it
// against the threshold. Overlapping blocks are counted once each, so the
// coverage of a dense page may exceed 1.
//
// A page with no area has coverage 0 and triggers OCR whenever a threshold
// is configured, since nothing on it could have been extracted reliably.
func (e *CoverageEvaluator) Evaluate(blocks []model.TextBlock, page model.BBox) Decision {
	pageArea := page.Area()
	if pageArea <= 0 {
		return Decision{ShouldTriggerOCR: e.Threshold != nil}
	}

	var textArea float64
	for _, b := range blocks {
		textArea += b.BBox.Area()
	}

	coverage := textArea / pageArea
	return Decision{
		ShouldTriggerOCR: e.Threshold != nil && coverage < *e.Threshold,
		Coverage:         coverage,
	}
}
