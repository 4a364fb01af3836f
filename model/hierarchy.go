package model

import "fmt"

// HierarchyLevel is the heading rank of a text block: H1 through H6, or body text.
type HierarchyLevel int

const (
	LevelBody HierarchyLevel = iota // Body text
	LevelH1                         // H1 - Main title/chapter
	LevelH2                         // H2 - Major section
	LevelH3                         // H3 - Subsection
	LevelH4                         // H4 - Sub-subsection
	LevelH5                         // H5 - Minor heading
	LevelH6                         // H6 - Lowest level heading
)

// String returns "h1".."h6" or "body"
func (l HierarchyLevel) String() string {
	switch l {
	case LevelH1:
		return "h1"
	case LevelH2:
		return "h2"
	case LevelH3:
		return "h3"
	case LevelH4:
		return "h4"
	case LevelH5:
		return "h5"
	case LevelH6:
		return "h6"
	default:
		return "body"
	}
}

// IsHeading reports whether the level is one of H1..H6
func (l HierarchyLevel) IsHeading() bool {
	return l >= LevelH1 && l <= LevelH6
}

// HeadingNumber returns 1..6 for heading levels and 0 for body text
func (l HierarchyLevel) HeadingNumber() int {
	if l.IsHeading() {
		return int(l)
	}
	return 0
}

// ParseHierarchyLevel parses the output of String.
func ParseHierarchyLevel(s string) (HierarchyLevel, error) {
	switch s {
	case "h1":
		return LevelH1, nil
	case "h2":
		return LevelH2, nil
	case "h3":
		return LevelH3, nil
	case "h4":
		return LevelH4, nil
	case "h5":
		return LevelH5, nil
	case "h6":
		return LevelH6, nil
	case "body":
		return LevelBody, nil
	}
	return LevelBody, fmt.Errorf("unknown hierarchy level %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (l HierarchyLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *HierarchyLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseHierarchyLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// HierarchicalBlock is a text block after level assignment.
type HierarchicalBlock struct {
	Text     string         `json:"text"`
	Level    HierarchyLevel `json:"level"`
	FontSize float64        `json:"font_size"`
	BBox     *BBox          `json:"bbox,omitempty"`

	Annotations []TextAnnotation `json:"annotations,omitempty"`
}

// PageHierarchy is the page-level hierarchy output.
type PageHierarchy struct {
	BlockCount int                 `json:"block_count"`
	Blocks     []HierarchicalBlock `json:"blocks"`
}

// NewPageHierarchy wraps blocks, never returning a nil Blocks slice
func NewPageHierarchy(blocks []HierarchicalBlock) PageHierarchy {
	if blocks == nil {
		blocks = []HierarchicalBlock{}
	}
	return PageHierarchy{
		BlockCount: len(blocks),
		Blocks:     blocks,
	}
}

// Headings returns the heading blocks in page order
func (h PageHierarchy) Headings() []HierarchicalBlock {
	var headings []HierarchicalBlock
	for _, b := range h.Blocks {
		if b.Level.IsHeading() {
			headings = append(headings, b)
		}
	}
	return headings
}
