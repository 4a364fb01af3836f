package mddoc

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/tsawler/strata/model"
)

// inlineText accumulates the text of inline nodes and the annotations their
// markup implies. Offsets are in runes.
type inlineText struct {
	src   []byte
	sb    strings.Builder
	runes int
	anns  []model.TextAnnotation
}

func (t *inlineText) write(s string) {
	t.sb.WriteString(s)
	t.runes += utf8.RuneCountInString(s)
}

// walk appends n and its descendants
func (t *inlineText) walk(n ast.Node) {
	switch node := n.(type) {
	case *ast.Text:
		t.write(string(node.Value(t.src)))
		switch {
		case node.HardLineBreak():
			t.write("\n")
		case node.SoftLineBreak():
			t.write(" ")
		}
		return
	case *ast.String:
		t.write(string(node.Value))
		return
	case *ast.AutoLink:
		start := t.runes
		t.write(string(node.Label(t.src)))
		t.annotate(model.TextAnnotation{Kind: model.AnnotationLink, URL: string(node.URL(t.src))}, start)
		return
	case *ast.RawHTML, *east.FootnoteLink, *east.FootnoteBacklink, *east.TaskCheckBox:
		return
	}

	ann, annotated := annotationFor(n)
	start := t.runes
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t.walk(c)
	}
	if annotated {
		t.annotate(ann, start)
	}
}

func (t *inlineText) annotate(ann model.TextAnnotation, start int) {
	if t.runes > start {
		ann.Start = start
		ann.End = t.runes
		t.anns = append(t.anns, ann)
	}
}

// result returns the collected text with surrounding whitespace removed
func (t *inlineText) result() (string, []model.TextAnnotation) {
	text := t.sb.String()
	trimmed := strings.TrimLeft(text, " \n")
	shift := utf8.RuneCountInString(text) - utf8.RuneCountInString(trimmed)
	trimmed = strings.TrimRight(trimmed, " \n")
	end := utf8.RuneCountInString(trimmed)

	var anns []model.TextAnnotation
	for _, a := range t.anns {
		a.Start = min(max(a.Start-shift, 0), end)
		a.End = min(max(a.End-shift, 0), end)
		if a.End > a.Start {
			anns = append(anns, a)
		}
	}
	return trimmed, anns
}

// collectInline gathers the inline content below n
func collectInline(n ast.Node, src []byte) (string, []model.TextAnnotation) {
	t := &inlineText{src: src}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t.walk(c)
	}
	return t.result()
}

// annotationFor maps an inline node to the annotation it implies
func annotationFor(n ast.Node) (model.TextAnnotation, bool) {
	switch node := n.(type) {
	case *ast.Emphasis:
		if node.Level >= 2 {
			return model.TextAnnotation{Kind: model.AnnotationBold}, true
		}
		return model.TextAnnotation{Kind: model.AnnotationItalic}, true
	case *ast.CodeSpan:
		return model.TextAnnotation{Kind: model.AnnotationCode}, true
	case *ast.Link:
		return model.TextAnnotation{
			Kind:  model.AnnotationLink,
			URL:   string(node.Destination),
			Title: string(node.Title),
		}, true
	case *east.Strikethrough:
		return model.TextAnnotation{Kind: model.AnnotationStrikethrough}, true
	}
	return model.TextAnnotation{}, false
}
