package layout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/strata/model"
)

// styleAnnotations returns bold and italic annotations for the styled runs
// of a block's characters, in rune offsets into text. Whitespace neither
// starts nor breaks a run and is not included at either end. A run covering
// all of the block's visible text is a property of the block, not inline
// formatting, and is dropped.
func (m *BlockMerger) styleAnnotations(chars []model.Character, members []int, text string) []model.TextAnnotation {
	styled := false
	for _, i := range members {
		if chars[i].Bold || chars[i].Italic {
			styled = true
			break
		}
	}
	if !styled {
		return nil
	}

	// Raw rune offsets of each member's text
	var raw strings.Builder
	offsets := make([]int, len(members)+1)
	blank := make([]bool, len(members))
	for j, i := range members {
		raw.WriteString(chars[i].Text)
		offsets[j+1] = offsets[j] + utf8.RuneCountInString(chars[i].Text)
		blank[j] = strings.TrimSpace(chars[i].Text) == ""
	}
	rawText := raw.String()

	first, last := -1, -1
	for j := range members {
		if !blank[j] {
			if first < 0 {
				first = j
			}
			last = j
		}
	}
	if first < 0 {
		return nil
	}

	textLen := utf8.RuneCountInString(text)
	position := func(rawOffset int) int {
		if !m.config.NormalizeText {
			return min(rawOffset, textLen)
		}
		prefix := string([]rune(rawText)[:rawOffset])
		return min(utf8.RuneCountInString(norm.NFC.String(prefix)), textLen)
	}

	var anns []model.TextAnnotation
	kinds := []struct {
		kind  model.AnnotationKind
		isSet func(model.Character) bool
	}{
		{model.AnnotationBold, func(c model.Character) bool { return c.Bold }},
		{model.AnnotationItalic, func(c model.Character) bool { return c.Italic }},
	}

	for _, k := range kinds {
		start := -1 // member index opening the current run
		end := -1   // last non-blank member in the run
		flush := func() {
			if start < 0 {
				return
			}
			if start > first || end < last {
				s, e := position(offsets[start]), position(offsets[end+1])
				if s < e {
					anns = append(anns, model.TextAnnotation{Start: s, End: e, Kind: k.kind})
				}
			}
			start, end = -1, -1
		}

		for j, i := range members {
			if blank[j] {
				continue
			}
			if k.isSet(chars[i]) {
				if start < 0 {
					start = j
				}
				end = j
			} else {
				flush()
			}
		}
		flush()
	}

	if len(anns) == 0 {
		return nil
	}
	return anns
}
