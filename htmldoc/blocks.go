package htmldoc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/structure"
)

// blockContext tracks the state that applies to everything below an element
type blockContext struct {
	layer    model.ContentLayer
	footnote bool
}

// blockWalker converts the body of a document into items
type blockWalker struct {
	regions    *regionClassifier
	imageCount int
}

// isBlockElement reports whether an element starts a new block rather than
// continuing the surrounding inline text.
func isBlockElement(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "body", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "li", "main",
		"math", "nav", "ol", "p", "pre", "section", "summary", "table", "ul", "img":
		return true
	}
	return false
}

// children converts the children of n, gathering runs of inline content
// into paragraphs.
func (w *blockWalker) children(n *html.Node, ctx blockContext) []structure.Item {
	var items []structure.Item
	var run []*html.Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		text, anns := collectInline(run...)
		run = nil
		if text != "" {
			items = append(items, w.textItem(text, anns, ctx))
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			flush()
			items = append(items, w.element(c, ctx)...)
			continue
		}
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			run = append(run, c)
		}
	}
	flush()
	return items
}

// textItem is a paragraph, or a footnote inside a footnote section
func (w *blockWalker) textItem(text string, anns []model.TextAnnotation, ctx blockContext) structure.Item {
	var content model.NodeContent = model.Paragraph{Text: text}
	if ctx.footnote {
		content = model.Footnote{Text: text}
	}
	return structure.NewItem(content, 1).WithAnnotations(anns...).WithLayer(ctx.layer)
}

// element converts a block element
func (w *blockWalker) element(n *html.Node, ctx blockContext) []structure.Item {
	if shouldSkipElement(n.Data) {
		return nil
	}

	switch w.regions.classify(n) {
	case regionSkip:
		return nil
	case regionHeader:
		ctx.layer = model.LayerHeader
	case regionFooter:
		ctx.layer = model.LayerFooter
	case regionFootnote:
		ctx.layer = model.LayerFootnote
		ctx.footnote = true
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text, anns := collectChildren(n)
		if text == "" {
			return nil
		}
		if ctx.footnote {
			return []structure.Item{w.textItem(text, anns, ctx)}
		}
		level := int(n.Data[1] - '0')
		return []structure.Item{
			structure.NewItem(model.Heading{Level: level, Text: text}, 1).WithAnnotations(anns...).WithLayer(ctx.layer),
		}

	case "p", "dt", "dd", "summary", "figcaption", "address":
		if isBlockContainer(n) {
			return w.children(n, ctx)
		}
		text, anns := collectChildren(n)
		if text == "" {
			return nil
		}
		return []structure.Item{w.textItem(text, anns, ctx)}

	case "ul", "ol":
		return w.list(n, ctx)

	case "li":
		// A list item outside any list reads as an item of an implicit one
		return []structure.Item{w.listItem(n, ctx, false)}

	case "table":
		grid, ok := parseTable(n)
		if !ok {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Table{Grid: grid}, 1).WithLayer(ctx.layer)}

	case "pre":
		text := strings.Trim(rawText(n), "\n")
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []structure.Item{
			structure.NewItem(model.Code{Text: text, Language: codeLanguage(n)}, 1).WithLayer(ctx.layer),
		}

	case "blockquote":
		children := w.children(n, ctx)
		if len(children) == 0 {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Quote{}, 1).WithChildren(children...).WithLayer(ctx.layer)}

	case "img":
		return []structure.Item{w.image(n, "", ctx)}

	case "figure":
		return w.figure(n, ctx)

	case "math":
		text := getAttr(n, "alttext")
		if text == "" {
			text = getTextContent(n)
		}
		if text == "" {
			return nil
		}
		return []structure.Item{structure.NewItem(model.Formula{Text: text}, 1).WithLayer(ctx.layer)}

	case "hr":
		return nil
	}

	// Structural containers
	return w.children(n, ctx)
}

// list converts a ul or ol element with its items
func (w *blockWalker) list(n *html.Node, ctx blockContext) []structure.Item {
	ordered := n.Data == "ol"

	var items []structure.Item
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "li" {
			items = append(items, w.element(c, ctx)...)
			continue
		}
		if ctx.footnote {
			// Each entry of a footnote list is one footnote
			text, anns := collectChildren(c)
			if text != "" {
				items = append(items, w.textItem(text, anns, ctx))
			}
			continue
		}
		items = append(items, w.listItem(c, ctx, ordered))
	}

	if ctx.footnote || len(items) == 0 {
		return items
	}
	return []structure.Item{
		structure.NewItem(model.List{Ordered: ordered}, 1).WithChildren(items...).WithLayer(ctx.layer),
	}
}

// listItem converts an li element. Its leading inline content is the item's
// text; nested lists and other blocks become its children.
func (w *blockWalker) listItem(n *html.Node, ctx blockContext, ordered bool) structure.Item {
	var inline []*html.Node
	var rest *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			rest = c
			break
		}
		inline = append(inline, c)
	}

	text, anns := collectInline(inline...)

	// A loose list item keeps its text in a leading paragraph
	if text == "" && rest != nil && rest.Data == "p" && !isBlockContainer(rest) {
		text, anns = collectChildren(rest)
		rest = rest.NextSibling
	}

	var children []structure.Item
	for c := rest; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			children = append(children, w.element(c, ctx)...)
			continue
		}
		if t, a := collectInline(c); t != "" {
			children = append(children, w.textItem(t, a, ctx))
		}
	}

	item := structure.NewItem(model.ListItem{Text: text}, 1).WithAnnotations(anns...).WithLayer(ctx.layer)
	item.Ordered = ordered
	return item.WithChildren(children...)
}

// figure converts a figure: images take the caption as their description
func (w *blockWalker) figure(n *html.Node, ctx blockContext) []structure.Item {
	caption := ""
	if fc := findElement(n, "figcaption"); fc != nil {
		caption = getTextContent(fc)
	}

	var items []structure.Item
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data == "figcaption" {
			continue
		}
		if c.Data == "img" {
			items = append(items, w.image(c, caption, ctx))
			continue
		}
		items = append(items, w.element(c, ctx)...)
	}
	return items
}

func (w *blockWalker) image(n *html.Node, caption string, ctx blockContext) structure.Item {
	desc := caption
	if desc == "" {
		desc = strings.TrimSpace(getAttr(n, "alt"))
	}
	if desc == "" {
		desc = strings.TrimSpace(getAttr(n, "title"))
	}
	idx := w.imageCount
	w.imageCount++
	return structure.NewItem(model.Image{Description: desc, ImageIndex: &idx}, 1).WithLayer(ctx.layer)
}

// codeLanguage reads the language from a "language-x" or "lang-x" class on
// the pre element or its code child
func codeLanguage(pre *html.Node) string {
	candidates := []*html.Node{pre}
	if code := findElement(pre, "code"); code != nil {
		candidates = append(candidates, code)
	}
	for _, n := range candidates {
		for _, class := range strings.Fields(getAttr(n, "class")) {
			for _, prefix := range []string{"language-", "lang-"} {
				if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
					return lang
				}
			}
		}
		if lang := getAttr(n, "data-lang"); lang != "" {
			return lang
		}
	}
	return ""
}

// isBlockContainer returns true if the element has block-level children.
func isBlockContainer(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			return true
		}
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// spanAttr parses a rowspan or colspan attribute, defaulting to 1
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(getAttr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
