package structure

import (
	"errors"
	"fmt"

	"github.com/tsawler/strata/model"
)

// ErrDataIntegrity is returned when an item contradicts the document it
// claims to belong to.
var ErrDataIntegrity = errors.New("data integrity")

// Stack levels. Title sits above H1..H6; a group without a heading level
// sits below every heading.
const (
	titleLevel = 0
	groupLevel = 7
)

// BuilderConfig holds configuration for tree assembly
type BuilderConfig struct {
	// PageCount is the number of pages in the source document. Items whose
	// pages fall outside 1..PageCount are rejected. Zero disables the check.
	PageCount int

	// AssignIDs computes deterministic node identifiers after assembly
	// Default: true
	AssignIDs bool
}

// DefaultBuilderConfig returns sensible default configuration
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		AssignIDs: true,
	}
}

// Builder assembles document-order items into a DocumentStructure.
//
// Headings, titles and groups with a heading level nest by level: each one
// closes every open section at the same or a deeper level and opens a new
// one. Other content attaches to the innermost open section. Consecutive
// ListItems are gathered under a List node, synthesized when none is open.
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a new builder with default configuration
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultBuilderConfig(),
	}
}

// NewBuilderWithConfig creates a builder with custom configuration
func NewBuilderWithConfig(config BuilderConfig) *Builder {
	return &Builder{
		config: config,
	}
}

type frame struct {
	level int
	index model.NodeIndex
}

// scope is the insertion state below one parent: the document roots, or
// the node of an item carrying children.
type scope struct {
	base     model.NodeIndex
	stack    []frame
	openList model.NodeIndex

	// synthesized reports whether openList was created by the builder
	synthesized bool

	// furniture holds the list state of top-level non-body items
	furniture *scope
}

func newScope(base model.NodeIndex) *scope {
	return &scope{base: base, openList: model.NoParent}
}

func (s *scope) top() model.NodeIndex {
	if len(s.stack) == 0 {
		return s.base
	}
	return s.stack[len(s.stack)-1].index
}

// open pushes idx as the innermost section at level
func (s *scope) open(level int, idx model.NodeIndex) {
	s.stack = append(s.stack, frame{level: level, index: idx})
}

func (s *scope) popTo(level int) {
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].level >= level {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Build validates items and assembles them into a new structure.
// Nothing is built if any item fails validation.
func (b *Builder) Build(items []Item) (*model.DocumentStructure, error) {
	for i := range items {
		if err := b.validate(items[i], fmt.Sprintf("item %d", i)); err != nil {
			return nil, err
		}
	}

	doc := model.NewDocumentStructure()
	root := newScope(model.NoParent)
	for _, item := range items {
		b.insert(doc, root, item, true)
	}

	if b.config.AssignIDs {
		AssignIDs(doc)
	}
	return doc, nil
}

func (b *Builder) insert(doc *model.DocumentStructure, s *scope, item Item, topLevel bool) {
	// Running headers, footers and footnotes stay out of the section tree.
	// They still end a run of list items.
	if topLevel && item.Layer != model.LayerBody {
		s.openList = model.NoParent
		if s.furniture == nil {
			s.furniture = newScope(model.NoParent)
		}
		f := s.furniture
		if f.openList != model.NoParent && doc.Get(f.openList).Layer != item.Layer {
			f.openList = model.NoParent
		}
		if _, ok := item.Content.(model.ListItem); ok {
			b.insert(doc, f, item, false)
			return
		}
		f.openList = model.NoParent
		idx := doc.AddNode(nodeFor(item), model.NoParent)
		b.insertChildren(doc, idx, item.Children)
		return
	}
	if topLevel && s.furniture != nil {
		s.furniture.openList = model.NoParent
	}

	if _, ok := item.Content.(model.ListItem); ok {
		if s.openList == model.NoParent {
			list := Item{
				Content: model.List{Ordered: item.Ordered},
				Layer:   item.Layer,
				Page:    item.Page,
			}
			s.openList = doc.AddNode(nodeFor(list), s.top())
			s.synthesized = true
		}
		idx := doc.AddNode(nodeFor(item), s.openList)
		if s.synthesized {
			extendList(doc.Get(s.openList), item)
		}
		b.insertChildren(doc, idx, item.Children)
		return
	}
	s.openList = model.NoParent

	switch c := item.Content.(type) {
	case model.Title:
		b.insertSection(doc, s, item, titleLevel)
		return
	case model.Heading:
		b.insertSection(doc, s, item, c.Level)
		return
	case model.Group:
		if c.HeadingLevel >= 1 && c.HeadingLevel <= 6 {
			b.insertSection(doc, s, item, c.HeadingLevel)
			return
		}
		s.popTo(groupLevel)
		idx := doc.AddNode(nodeFor(item), s.top())
		s.open(groupLevel, idx)
		b.insertChildren(doc, idx, item.Children)
		return
	}

	idx := doc.AddNode(nodeFor(item), s.top())
	b.insertChildren(doc, idx, item.Children)

	if _, ok := item.Content.(model.List); ok {
		s.openList = idx
		s.synthesized = false
	}
}

// insertSection closes sections at level or deeper and opens a new one
func (b *Builder) insertSection(doc *model.DocumentStructure, s *scope, item Item, level int) {
	s.popTo(level)
	idx := doc.AddNode(nodeFor(item), s.top())
	s.open(level, idx)
	b.insertChildren(doc, idx, item.Children)
}

func (b *Builder) insertChildren(doc *model.DocumentStructure, parent model.NodeIndex, children []Item) {
	if len(children) == 0 {
		return
	}
	s := newScope(parent)
	// ListItems directly beneath a List belong to it
	if _, ok := doc.Get(parent).Content.(model.List); ok {
		s.openList = parent
	}
	for _, child := range children {
		b.insert(doc, s, child, false)
	}
}

// extendList widens a synthesized list to cover a new item
func extendList(list *model.DocumentNode, item Item) {
	if item.BBox != nil {
		if list.BBox == nil {
			bbox := *item.BBox
			list.BBox = &bbox
		} else {
			bbox := list.BBox.Union(*item.BBox)
			list.BBox = &bbox
		}
	}
	last := item.Page
	if item.PageEnd != nil {
		last = *item.PageEnd
	}
	if last > list.Page {
		end := last
		list.PageEnd = &end
	}
}

func nodeFor(item Item) model.DocumentNode {
	return model.DocumentNode{
		Content:     item.Content,
		Layer:       item.Layer,
		Page:        item.Page,
		PageEnd:     item.PageEnd,
		BBox:        item.BBox,
		Annotations: item.Annotations,
	}
}

// validate checks an item and its children against the builder's document
func (b *Builder) validate(item Item, path string) error {
	if item.Content == nil {
		return fmt.Errorf("%w: %s has no content", ErrDataIntegrity, path)
	}

	if item.Page < 0 {
		return fmt.Errorf("%w: %s has negative page %d", ErrDataIntegrity, path, item.Page)
	}
	if n := b.config.PageCount; n > 0 && (item.Page < 1 || item.Page > n) {
		return fmt.Errorf("%w: %s claims page %d of a %d page document", ErrDataIntegrity, path, item.Page, n)
	}
	if item.PageEnd != nil {
		end := *item.PageEnd
		if end < item.Page {
			return fmt.Errorf("%w: %s ends on page %d before it starts on page %d", ErrDataIntegrity, path, end, item.Page)
		}
		if n := b.config.PageCount; n > 0 && end > n {
			return fmt.Errorf("%w: %s ends on page %d of a %d page document", ErrDataIntegrity, path, end, n)
		}
	}

	switch c := item.Content.(type) {
	case model.Heading:
		if c.Level < 1 || c.Level > 6 {
			return fmt.Errorf("%w: %s has heading level %d", ErrDataIntegrity, path, c.Level)
		}
	case model.Group:
		if c.HeadingLevel < 0 || c.HeadingLevel > 6 {
			return fmt.Errorf("%w: %s has group heading level %d", ErrDataIntegrity, path, c.HeadingLevel)
		}
	case model.Table:
		if err := c.Grid.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDataIntegrity, path, err)
		}
	}

	if len(item.Annotations) > 0 {
		text, ok := model.TextOf(item.Content)
		if !ok {
			return fmt.Errorf("%w: %s annotates a %s node, which has no text", ErrDataIntegrity, path, item.Content.NodeType())
		}
		textLen := len([]rune(text))
		for _, a := range item.Annotations {
			if err := a.Validate(textLen); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrDataIntegrity, path, err)
			}
		}
	}

	for i, child := range item.Children {
		if err := b.validate(child, fmt.Sprintf("%s child %d", path, i)); err != nil {
			return err
		}
	}
	return nil
}
