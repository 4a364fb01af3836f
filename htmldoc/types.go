// Package htmldoc turns HTML documents into structural items.
//
// Block elements become headings, paragraphs, lists, tables, code blocks,
// quotes, images and formulas. Inline markup (strong, em, code, links and
// the like) is kept as text annotations. Top-level page headers and footers
// are tagged with their content layer, footnote sections become footnotes,
// and navigation is dropped according to the exclusion mode.
package htmldoc

// NavigationExclusionMode controls how navigation, headers, and footers are classified.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone includes all content as body text.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit drops only explicit semantic HTML5 elements:
	// <nav>, <aside>, and ARIA roles (role="navigation", role="complementary").
	// <header> and <footer> are tagged as header and footer layers only when
	// they are direct children of <body> or a single top-level wrapper element.
	NavigationExclusionExplicit

	// NavigationExclusionStandard (default) combines explicit element detection with
	// common class/id pattern matching. This catches navigation and boilerplate content
	// even when sites don't use semantic HTML5 elements.
	NavigationExclusionStandard

	// NavigationExclusionAggressive adds link-density heuristics to standard detection.
	// Sections with very high link-to-text ratios are dropped. This may occasionally
	// drop legitimate content like link-heavy documentation.
	NavigationExclusionAggressive
)

// String returns the mode name
func (m NavigationExclusionMode) String() string {
	switch m {
	case NavigationExclusionNone:
		return "none"
	case NavigationExclusionExplicit:
		return "explicit"
	case NavigationExclusionStandard:
		return "standard"
	case NavigationExclusionAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseNavigationExclusionMode parses a mode name as returned by String
func ParseNavigationExclusionMode(s string) (NavigationExclusionMode, bool) {
	for m := NavigationExclusionNone; m <= NavigationExclusionAggressive; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return NavigationExclusionStandard, false
}

// Options controls how an HTML document is read
type Options struct {
	// Navigation selects how navigation and page furniture are handled
	// Default: NavigationExclusionStandard
	Navigation NavigationExclusionMode

	// EmitTitle adds the document's <title> as a Title item ahead of the body
	// Default: false
	EmitTitle bool
}

// DefaultOptions returns sensible default options
func DefaultOptions() Options {
	return Options{
		Navigation: NavigationExclusionStandard,
	}
}

// Metadata holds document-level information from the <head> element
type Metadata struct {
	Title       string
	Author      string
	Description string
	Keywords    []string
}
