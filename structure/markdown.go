package structure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/strata/model"
)

// MarkdownOptions controls Markdown rendering
type MarkdownOptions struct {
	// IncludeFurniture renders header and footer layer nodes
	// Default: false
	IncludeFurniture bool

	// ApplyAnnotations renders inline annotations as Markdown emphasis,
	// code spans and links
	// Default: true
	ApplyAnnotations bool
}

// DefaultMarkdownOptions returns sensible default options
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		ApplyAnnotations: true,
	}
}

// RenderMarkdown renders a structure as Markdown with default options
func RenderMarkdown(doc *model.DocumentStructure) string {
	return RenderMarkdownWithOptions(doc, DefaultMarkdownOptions())
}

// RenderMarkdownWithOptions renders a structure as Markdown
func RenderMarkdownWithOptions(doc *model.DocumentStructure, opts MarkdownOptions) string {
	if doc == nil || doc.IsEmpty() {
		return ""
	}
	r := &mdRenderer{doc: doc, opts: opts}
	var blocks []string
	for _, root := range doc.Roots() {
		if s := r.render(root, 0); s != "" {
			blocks = append(blocks, s)
		}
	}
	if len(r.footnotes) > 0 {
		blocks = append(blocks, strings.Join(r.footnotes, "\n"))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

type mdRenderer struct {
	doc       *model.DocumentStructure
	opts      MarkdownOptions
	footnotes []string
}

func (r *mdRenderer) render(idx model.NodeIndex, listDepth int) string {
	node := r.doc.Get(idx)
	if !r.opts.IncludeFurniture && (node.Layer == model.LayerHeader || node.Layer == model.LayerFooter) {
		return ""
	}

	var self string
	switch c := node.Content.(type) {
	case model.Title:
		self = "# " + r.inline(node)
	case model.Heading:
		self = strings.Repeat("#", c.Level) + " " + r.inline(node)
	case model.Paragraph:
		self = r.inline(node)
	case model.List:
		return r.renderList(node, c.Ordered, listDepth)
	case model.ListItem:
		// Only reached for an item outside any list
		self = "- " + r.inline(node)
	case model.Table:
		self = strings.TrimRight(c.Grid.ToMarkdown(), "\n")
	case model.Image:
		switch {
		case c.ImageIndex != nil:
			self = fmt.Sprintf("![%s](image-%d)", c.Description, *c.ImageIndex)
		case c.Description != "":
			self = fmt.Sprintf("*[Image: %s]*", c.Description)
		default:
			self = "*[Image]*"
		}
	case model.Code:
		self = "```" + c.Language + "\n" + strings.TrimRight(c.Text, "\n") + "\n```"
	case model.Quote:
		inner := r.renderChildren(node, listDepth)
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			if line == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + line
			}
		}
		return strings.Join(lines, "\n")
	case model.Formula:
		self = "$$\n" + c.Text + "\n$$"
	case model.Footnote:
		n := len(r.footnotes) + 1
		r.footnotes = append(r.footnotes, fmt.Sprintf("[^%d]: %s", n, r.inline(node)))
		return r.renderChildren(node, listDepth)
	case model.Group:
		if c.HeadingLevel > 0 && c.HeadingText != "" {
			self = strings.Repeat("#", c.HeadingLevel) + " " + r.inline(node)
		}
	case model.PageBreak:
		self = "---"
	}

	children := r.renderChildren(node, listDepth)
	switch {
	case self == "":
		return children
	case children == "":
		return self
	default:
		return self + "\n\n" + children
	}
}

func (r *mdRenderer) renderChildren(node *model.DocumentNode, listDepth int) string {
	var parts []string
	for _, child := range node.Children {
		if s := r.render(child, listDepth); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r *mdRenderer) renderList(node *model.DocumentNode, ordered bool, depth int) string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	n := 0
	for _, child := range node.Children {
		item := r.doc.Get(child)
		if _, ok := item.Content.(model.ListItem); !ok {
			if s := r.render(child, depth+1); s != "" {
				lines = append(lines, indentLines(s, indent+"  "))
			}
			continue
		}
		n++
		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", n)
		}
		lines = append(lines, indent+marker+" "+r.inline(item))
		for _, grandchild := range item.Children {
			if s := r.render(grandchild, depth+1); s != "" {
				if _, isList := r.doc.Get(grandchild).Content.(model.List); isList {
					lines = append(lines, s)
				} else {
					lines = append(lines, indentLines(s, indent+"  "))
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// inline returns the node's text with its annotations applied
func (r *mdRenderer) inline(node *model.DocumentNode) string {
	text := node.Text()
	if !r.opts.ApplyAnnotations || len(node.Annotations) == 0 {
		return text
	}
	return ApplyAnnotations(text, node.Annotations)
}

// ApplyAnnotations inserts Markdown markup for each annotation into text.
// Offsets are in runes. Empty spans are ignored.
func ApplyAnnotations(text string, anns []model.TextAnnotation) string {
	runes := []rune(text)

	var spans []model.TextAnnotation
	for _, a := range anns {
		if a.Start >= a.End || a.Start < 0 || a.End > len(runes) {
			continue
		}
		spans = append(spans, a)
	}
	if len(spans) == 0 {
		return text
	}

	// Outer spans open first and close last
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	opens := make(map[int][]string)
	closes := make(map[int][]string)
	for _, s := range spans {
		openMark, closeMark := markers(s)
		opens[s.Start] = append(opens[s.Start], openMark)
		closes[s.End] = append([]string{closeMark}, closes[s.End]...)
	}

	var sb strings.Builder
	for i := 0; i <= len(runes); i++ {
		for _, m := range closes[i] {
			sb.WriteString(m)
		}
		for _, m := range opens[i] {
			sb.WriteString(m)
		}
		if i < len(runes) {
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

func markers(a model.TextAnnotation) (string, string) {
	switch a.Kind {
	case model.AnnotationBold:
		return "**", "**"
	case model.AnnotationItalic:
		return "*", "*"
	case model.AnnotationStrikethrough:
		return "~~", "~~"
	case model.AnnotationCode:
		return "`", "`"
	case model.AnnotationUnderline:
		return "<u>", "</u>"
	case model.AnnotationSubscript:
		return "<sub>", "</sub>"
	case model.AnnotationSuperscript:
		return "<sup>", "</sup>"
	case model.AnnotationLink:
		if a.Title != "" {
			return "[", fmt.Sprintf("](%s %q)", a.URL, a.Title)
		}
		return "[", "](" + a.URL + ")"
	}
	return "", ""
}
