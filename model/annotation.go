package model

import (
	"errors"
	"fmt"
)

// ErrAnnotationBounds is returned when an annotation does not fit its node's text.
var ErrAnnotationBounds = errors.New("annotation out of bounds")

// AnnotationKind is the inline formatting an annotation applies
type AnnotationKind string

const (
	AnnotationBold          AnnotationKind = "bold"
	AnnotationItalic        AnnotationKind = "italic"
	AnnotationUnderline     AnnotationKind = "underline"
	AnnotationStrikethrough AnnotationKind = "strikethrough"
	AnnotationCode          AnnotationKind = "code"
	AnnotationSubscript     AnnotationKind = "subscript"
	AnnotationSuperscript   AnnotationKind = "superscript"
	AnnotationLink          AnnotationKind = "link"
)

// TextAnnotation marks a span of a node's text. Start and End are rune
// offsets, End exclusive. URL and Title are used by links only.
type TextAnnotation struct {
	Start int            `json:"start"`
	End   int            `json:"end"`
	Kind  AnnotationKind `json:"kind"`
	URL   string         `json:"url,omitempty"`
	Title string         `json:"title,omitempty"`
}

// Validate checks 0 <= Start <= End <= textLen, textLen counted in runes
func (a TextAnnotation) Validate(textLen int) error {
	if a.Start < 0 || a.Start > a.End || a.End > textLen {
		return fmt.Errorf("%w: %s [%d,%d) in text of length %d", ErrAnnotationBounds, a.Kind, a.Start, a.End, textLen)
	}
	return nil
}

// Len returns the span length in runes
func (a TextAnnotation) Len() int {
	return a.End - a.Start
}
