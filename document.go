package strata

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/strata/model"
)

// DocumentResult is the pipeline output for a set of pages
type DocumentResult struct {
	// Pages holds one result per input page, in input order
	Pages []*PageResult `json:"pages"`

	// Structure concatenates the page forests in input order
	Structure *model.DocumentStructure `json:"structure"`
}

// OCRPages returns the numbers of the pages flagged for OCR
func (r *DocumentResult) OCRPages() []int {
	if r == nil {
		return nil
	}
	var pages []int
	for _, p := range r.Pages {
		if p.OCR.ShouldTriggerOCR {
			pages = append(pages, p.Page)
		}
	}
	return pages
}

// ProcessDocument processes pages in parallel. Pages are independent, so the
// result is the same as processing them one by one. A page without a
// PageCount is checked against the largest page number in the set.
//
// The first failing page cancels the pages not yet started and its error is
// returned. Cancelling ctx does the same.
func (p *Processor) ProcessDocument(ctx context.Context, pages []PageInput) (*DocumentResult, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	pageCount := 0
	for _, page := range pages {
		pageCount = max(pageCount, page.Number)
	}

	limit := p.config.Concurrency
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]*PageResult, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, page := range pages {
		if page.PageCount == 0 {
			page.PageCount = pageCount
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := p.ProcessPage(page)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing document: %w", err)
	}

	doc := model.NewDocumentStructure()
	for _, r := range results {
		doc.Append(r.Structure)
	}

	result := &DocumentResult{Pages: results, Structure: doc}
	p.logger.Debug("processed document",
		"pages", len(results),
		"nodes", doc.Len(),
		"ocr_pages", result.OCRPages(),
	)
	return result, nil
}
