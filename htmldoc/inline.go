package htmldoc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/tsawler/strata/model"
)

// inlineText accumulates whitespace-collapsed text and the annotations of
// the inline markup it passes through. Offsets are in runes.
type inlineText struct {
	sb           strings.Builder
	runes        int
	pendingSpace bool
	atBreak      bool
	anns         []model.TextAnnotation
}

func (t *inlineText) writeText(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) {
			if t.runes > 0 && !t.atBreak {
				t.pendingSpace = true
			}
			continue
		}
		t.flushSpace()
		t.sb.WriteRune(r)
		t.runes++
		t.atBreak = false
	}
}

// flushSpace emits a collapsed space so that a following span starts
// after it
func (t *inlineText) flushSpace() {
	if t.pendingSpace {
		t.sb.WriteByte(' ')
		t.runes++
		t.pendingSpace = false
	}
}

func (t *inlineText) lineBreak() {
	if t.runes == 0 {
		return
	}
	t.pendingSpace = false
	t.atBreak = true
	t.sb.WriteByte('\n')
	t.runes++
}

// walk appends n and its inline descendants
func (t *inlineText) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		t.writeText(n.Data)
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			t.lineBreak()
			return
		}
	default:
		return
	}

	ann, annotated := annotationFor(n)
	if annotated {
		t.flushSpace()
		ann.Start = t.runes
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.walk(c)
	}
	if annotated {
		ann.End = t.runes
		if ann.End > ann.Start {
			t.anns = append(t.anns, ann)
		}
	}
}

// result returns the collected text and annotations
func (t *inlineText) result() (string, []model.TextAnnotation) {
	text := t.sb.String()
	// A trailing line break is the only thing that can end the text in whitespace
	trimmed := strings.TrimRight(text, "\n")
	if len(trimmed) != len(text) {
		end := len([]rune(trimmed))
		for i := range t.anns {
			if t.anns[i].End > end {
				t.anns[i].End = end
			}
		}
		text = trimmed
	}

	anns := t.anns[:0]
	for _, a := range t.anns {
		if a.End > a.Start {
			anns = append(anns, a)
		}
	}
	if len(anns) == 0 {
		anns = nil
	}
	return text, anns
}

// collectInline gathers the inline content of nodes
func collectInline(nodes ...*html.Node) (string, []model.TextAnnotation) {
	var t inlineText
	for _, n := range nodes {
		t.walk(n)
	}
	return t.result()
}

// collectChildren gathers the inline content of n's children
func collectChildren(n *html.Node) (string, []model.TextAnnotation) {
	var t inlineText
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.walk(c)
	}
	return t.result()
}

// annotationFor maps an inline element to the annotation it implies
func annotationFor(n *html.Node) (model.TextAnnotation, bool) {
	var kind model.AnnotationKind
	switch n.Data {
	case "b", "strong":
		kind = model.AnnotationBold
	case "i", "em", "cite", "dfn", "var":
		kind = model.AnnotationItalic
	case "u", "ins":
		kind = model.AnnotationUnderline
	case "s", "del", "strike":
		kind = model.AnnotationStrikethrough
	case "code", "kbd", "samp", "tt":
		kind = model.AnnotationCode
	case "sub":
		kind = model.AnnotationSubscript
	case "sup":
		kind = model.AnnotationSuperscript
	case "a":
		href := getAttr(n, "href")
		if href == "" {
			return model.TextAnnotation{}, false
		}
		return model.TextAnnotation{Kind: model.AnnotationLink, URL: href, Title: getAttr(n, "title")}, true
	default:
		return model.TextAnnotation{}, false
	}
	return model.TextAnnotation{Kind: kind}, true
}

// shouldSkipElement returns true if the element never carries document content.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "iframe", "object", "embed", "head", "button", "input", "select", "textarea":
		return true
	}
	return false
}

// rawText returns the text of n with whitespace preserved, for preformatted content
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if shouldSkipElement(n.Data) {
				return
			}
			if n.Data == "br" {
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getTextContent returns the whitespace-collapsed text of n
func getTextContent(n *html.Node) string {
	text, _ := collectChildren(n)
	return text
}
