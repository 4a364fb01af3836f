// Package mddoc turns Markdown documents into structural items.
//
// The document is parsed with goldmark and its GitHub Flavored Markdown and
// footnote extensions. Emphasis, code spans, links and strikethrough become
// text annotations.
package mddoc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/structure"
)

// Reader provides access to Markdown document content.
type Reader struct {
	items []structure.Item
}

// Open reads a Markdown file.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader reads Markdown from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markdown: %w", err)
	}
	return Parse(src), nil
}

// Parse converts Markdown source. Any input is valid Markdown.
func Parse(src []byte) *Reader {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	doc := md.Parser().Parse(text.NewReader(src))

	c := &converter{src: src}
	return &Reader{items: c.blocks(doc)}
}

// PageCount returns 1 (Markdown documents are single-page).
func (r *Reader) PageCount() (int, error) {
	return 1, nil
}

// Items returns the document content in reading order, ready for
// structure.Builder. All items are on page 1.
func (r *Reader) Items() []structure.Item {
	return r.items
}

// Structure assembles the document tree
func (r *Reader) Structure() (*model.DocumentStructure, error) {
	config := structure.DefaultBuilderConfig()
	config.PageCount = 1
	doc, err := structure.NewBuilderWithConfig(config).Build(r.items)
	if err != nil {
		return nil, fmt.Errorf("building structure: %w", err)
	}
	return doc, nil
}

type converter struct {
	src        []byte
	imageCount int
}

// blocks converts the block children of parent
func (c *converter) blocks(parent ast.Node) []structure.Item {
	var items []structure.Item
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		items = append(items, c.block(n)...)
	}
	return items
}

func (c *converter) block(n ast.Node) []structure.Item {
	switch node := n.(type) {
	case *ast.Heading:
		text, anns := collectInline(node, c.src)
		if text == "" {
			return nil
		}
		return []structure.Item{
			structure.NewItem(model.Heading{Level: node.Level, Text: text}, 1).WithAnnotations(anns...),
		}

	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := soleImage(node); ok {
			return []structure.Item{c.image(img)}
		}
		text, anns := collectInline(node, c.src)
		if text == "" {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Paragraph{Text: text}, 1).WithAnnotations(anns...)}

	case *ast.List:
		var children []structure.Item
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			if item, ok := li.(*ast.ListItem); ok {
				children = append(children, c.listItem(item, node.IsOrdered()))
			}
		}
		if len(children) == 0 {
			return nil
		}
		return []structure.Item{
			structure.NewItem(model.List{Ordered: node.IsOrdered()}, 1).WithChildren(children...),
		}

	case *ast.FencedCodeBlock:
		return []structure.Item{
			structure.NewItem(model.Code{Text: c.lines(node), Language: string(node.Language(c.src))}, 1),
		}

	case *ast.CodeBlock:
		return []structure.Item{structure.NewItem(model.Code{Text: c.lines(node)}, 1)}

	case *ast.Blockquote:
		children := c.blocks(node)
		if len(children) == 0 {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Quote{}, 1).WithChildren(children...)}

	case *east.Table:
		grid, ok := c.table(node)
		if !ok {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Table{Grid: grid}, 1)}

	case *east.FootnoteList:
		var items []structure.Item
		for fn := node.FirstChild(); fn != nil; fn = fn.NextSibling() {
			if text := c.footnoteText(fn); text != "" {
				items = append(items, structure.NewItem(model.Footnote{Text: text}, 1).WithLayer(model.LayerFootnote))
			}
		}
		return items

	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	}

	// Unknown containers
	return c.blocks(n)
}

// listItem converts a list item: its first paragraph is the item's text and
// the rest of its blocks become its children.
func (c *converter) listItem(li *ast.ListItem, ordered bool) structure.Item {
	var text string
	var anns []model.TextAnnotation

	first := li.FirstChild()
	switch first.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		text, anns = collectInline(first, c.src)
		first = first.NextSibling()
	}

	var children []structure.Item
	for n := first; n != nil; n = n.NextSibling() {
		children = append(children, c.block(n)...)
	}

	item := structure.NewItem(model.ListItem{Text: text}, 1).WithAnnotations(anns...)
	item.Ordered = ordered
	return item.WithChildren(children...)
}

// soleImage reports whether a paragraph holds nothing but an image
func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

func (c *converter) image(img *ast.Image) structure.Item {
	desc, _ := collectInline(img, c.src)
	if desc == "" {
		desc = string(img.Title)
	}
	idx := c.imageCount
	c.imageCount++
	return structure.NewItem(model.Image{Description: desc, ImageIndex: &idx}, 1)
}

// lines joins the raw lines of a code block
func (c *converter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// table converts a GFM table. The header row is row 0.
func (c *converter) table(t *east.Table) (model.TableGrid, bool) {
	var rows [][]model.TableCell
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		_, header := r.(*east.TableHeader)
		var row []model.TableCell
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			text, _ := collectInline(cell, c.src)
			row = append(row, model.TableCell{Content: text, IsHeader: header})
		}
		rows = append(rows, row)
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if len(rows) == 0 || cols == 0 {
		return model.TableGrid{}, false
	}

	grid := model.NewTableGrid(len(rows), cols)
	for i, row := range rows {
		for j, cell := range row {
			cell.Row, cell.Col = i, j
			grid.AddCell(cell)
		}
	}
	return grid, true
}

// footnoteText joins the paragraphs of a footnote definition
func (c *converter) footnoteText(fn ast.Node) string {
	var parts []string
	for n := fn.FirstChild(); n != nil; n = n.NextSibling() {
		if text, _ := collectInline(n, c.src); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
