package strata

import (
	"fmt"

	"github.com/tsawler/strata/layout"
	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/ocr"
	"github.com/tsawler/strata/structure"
)

// PageInput is an immutable snapshot of one page handed to the pipeline.
type PageInput struct {
	// Number is the 1-based page number
	Number int

	// BBox is the page box in the characters' coordinate space
	BBox model.BBox

	// Characters in the order the layout source emitted them
	Characters []model.Character

	// Items are externally detected structural elements. Each item's
	// Position is the number of the page's text blocks that precede it;
	// see PositionByBBox. Items with page 0 are placed on this page.
	Items []structure.Item

	// PlaceByBBox derives each item's Position from its BBox with
	// PositionByBBox instead of trusting the Position field. Items without a
	// BBox follow the last block.
	PlaceByBBox bool

	// PageCount is the number of pages in the source document. Items on
	// pages outside 1..PageCount are rejected. Zero skips the check.
	PageCount int
}

// PageResult is the pipeline output for one page
type PageResult struct {
	Page int `json:"page"`

	// Blocks are the merged text blocks in merge order
	Blocks []model.TextBlock `json:"-"`

	// Clusters are the realized font-size clusters, largest first
	Clusters []model.FontCluster `json:"clusters,omitempty"`

	Hierarchy model.PageHierarchy      `json:"hierarchy"`
	Structure *model.DocumentStructure `json:"structure"`
	OCR       ocr.Decision             `json:"ocr"`
}

// ProcessPage merges, clusters and nests one page.
func (p *Processor) ProcessPage(page PageInput) (*PageResult, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if page.Number < 1 {
		return nil, fmt.Errorf("%w: page number %d", structure.ErrDataIntegrity, page.Number)
	}

	merged := layout.NewBlockMergerWithConfig(p.config.Merge).Merge(page.Characters)
	blocks := merged.Blocks

	result := &PageResult{
		Page:   page.Number,
		Blocks: blocks,
		OCR:    p.coverageEvaluator().Evaluate(blocks, page.BBox),
	}

	levelled, err := p.assignLevels(blocks, result)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page.Number, err)
	}

	var layers []model.ContentLayer
	if p.config.DetectLayers {
		layers = layout.NewLayerClassifierWithConfig(p.config.Layers).Classify(blocks, page.BBox)
	}

	blockItems := make([]structure.Item, len(levelled))
	for i, b := range levelled {
		blockItems[i] = structure.ItemFromBlock(b, page.Number)
		if layers != nil {
			blockItems[i].Layer = layers[i]
		}
	}

	external := withPage(page.Items, page.Number)
	if page.PlaceByBBox {
		for i := range external {
			external[i].Position = len(blocks)
			if bbox := external[i].BBox; bbox != nil {
				external[i].Position = PositionByBBox(blocks, *bbox)
			}
		}
	}

	items, err := Interleave(blockItems, external)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page.Number, err)
	}

	builder := structure.NewBuilderWithConfig(structure.BuilderConfig{
		PageCount: page.PageCount,
		AssignIDs: true,
	})
	doc, err := builder.Build(items)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page.Number, err)
	}
	result.Structure = doc

	p.logger.Debug("processed page",
		"page", page.Number,
		"characters", len(page.Characters),
		"blocks", len(blocks),
		"clusters", len(result.Clusters),
		"headings", len(result.Hierarchy.Headings()),
		"nodes", doc.Len(),
		"ocr", result.OCR.ShouldTriggerOCR,
		"coverage", result.OCR.Coverage,
	)

	return result, nil
}

// assignLevels clusters the blocks and records the page hierarchy. With
// clustering disabled every block is body text and the hierarchy is empty.
func (p *Processor) assignLevels(blocks []model.TextBlock, result *PageResult) ([]model.HierarchicalBlock, error) {
	if !p.config.Enabled {
		levelled := make([]model.HierarchicalBlock, len(blocks))
		for i, b := range blocks {
			levelled[i] = model.HierarchicalBlock{
				Text:        b.Text,
				Level:       model.LevelBody,
				FontSize:    b.FontSize,
				Annotations: b.Annotations,
			}
			if p.config.IncludeBBox {
				bbox := b.BBox
				levelled[i].BBox = &bbox
			}
		}
		result.Hierarchy = model.NewPageHierarchy(nil)
		return levelled, nil
	}

	clusters, err := layout.NewFontSizeClustererWithConfig(p.config.Cluster).Cluster(blocks, p.config.KClusters)
	if err != nil {
		return nil, err
	}
	result.Clusters = clusters.Clusters

	levelConfig := layout.DefaultLevelConfig()
	levelConfig.Strategy = p.config.Levels
	levelConfig.IncludeBBox = p.config.IncludeBBox
	levelled := layout.NewLevelAssignerWithConfig(levelConfig).Assign(blocks, clusters)

	result.Hierarchy = model.NewPageHierarchy(levelled)
	return levelled, nil
}

// withPage places items without a page, and their children, on page
func withPage(items []structure.Item, page int) []structure.Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]structure.Item, len(items))
	for i, it := range items {
		if it.Page == 0 {
			it.Page = page
		}
		it.Children = withPage(it.Children, page)
		out[i] = it
	}
	return out
}

// Interleave merges external items into the block sequence. Items whose
// Position is i are emitted, in input order, just before block i; items at
// len(blocks) follow the last block.
func Interleave(blocks, external []structure.Item) ([]structure.Item, error) {
	byPos := make(map[int][]structure.Item)
	for i, it := range external {
		if it.Position < 0 || it.Position > len(blocks) {
			return nil, fmt.Errorf("%w: item %d has position %d outside 0..%d",
				structure.ErrDataIntegrity, i, it.Position, len(blocks))
		}
		byPos[it.Position] = append(byPos[it.Position], it)
	}

	out := make([]structure.Item, 0, len(blocks)+len(external))
	for i := 0; i <= len(blocks); i++ {
		out = append(out, byPos[i]...)
		if i < len(blocks) {
			out = append(out, blocks[i])
		}
	}
	return out, nil
}

// PositionByBBox returns the number of blocks whose top edge lies above the
// top edge of bbox, in a coordinate space where Y increases upward. It is
// the Position for an item detected at bbox.
func PositionByBBox(blocks []model.TextBlock, bbox model.BBox) int {
	n := 0
	for _, b := range blocks {
		if b.BBox.Top() > bbox.Top() {
			n++
		}
	}
	return n
}
