// Package structure assembles document-order items into a
// model.DocumentStructure tree and renders the result.
package structure

import (
	"github.com/tsawler/strata/model"
)

// Item is one document-order input to the Builder: either a classified text
// block or an externally detected structural element.
type Item struct {
	Content     model.NodeContent
	Layer       model.ContentLayer
	Page        int
	PageEnd     *int
	BBox        *model.BBox
	Annotations []model.TextAnnotation

	// Ordered applies to the List synthesized around a run of ListItems
	Ordered bool

	// Children are inserted beneath this item's node, in order
	Children []Item

	// Position is the number of page text blocks that precede this item.
	// It is only consulted when items are interleaved with text blocks.
	Position int
}

// Text returns the item's text payload, or "" for variants without text
func (it Item) Text() string {
	text, _ := model.TextOf(it.Content)
	return text
}

// NewItem creates a body-layer item on the given page
func NewItem(content model.NodeContent, page int) Item {
	return Item{Content: content, Page: page}
}

// WithAnnotations returns a copy of the item carrying annotations
func (it Item) WithAnnotations(anns ...model.TextAnnotation) Item {
	it.Annotations = append(append([]model.TextAnnotation(nil), it.Annotations...), anns...)
	return it
}

// WithChildren returns a copy of the item carrying children
func (it Item) WithChildren(children ...Item) Item {
	it.Children = append(append([]Item(nil), it.Children...), children...)
	return it
}

// WithBBox returns a copy of the item with a bounding box
func (it Item) WithBBox(bbox model.BBox) Item {
	it.BBox = &bbox
	return it
}

// WithLayer returns a copy of the item in the given content layer
func (it Item) WithLayer(layer model.ContentLayer) Item {
	it.Layer = layer
	return it
}

// ItemFromBlock converts a hierarchical block to an item: heading levels
// become Heading nodes and body text becomes a Paragraph.
func ItemFromBlock(block model.HierarchicalBlock, page int) Item {
	item := Item{Page: page, BBox: block.BBox, Annotations: block.Annotations}
	if block.Level.IsHeading() {
		item.Content = model.Heading{Level: block.Level.HeadingNumber(), Text: block.Text}
	} else {
		item.Content = model.Paragraph{Text: block.Text}
	}
	return item
}
