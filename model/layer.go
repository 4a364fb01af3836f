package model

import "fmt"

// ContentLayer classifies a node's role in the page layout, independent of
// its heading level.
type ContentLayer int

const (
	LayerBody ContentLayer = iota
	LayerHeader
	LayerFooter
	LayerFootnote
)

func (l ContentLayer) String() string {
	switch l {
	case LayerHeader:
		return "header"
	case LayerFooter:
		return "footer"
	case LayerFootnote:
		return "footnote"
	default:
		return "body"
	}
}

// ParseContentLayer parses the output of String
func ParseContentLayer(s string) (ContentLayer, error) {
	switch s {
	case "body", "":
		return LayerBody, nil
	case "header":
		return LayerHeader, nil
	case "footer":
		return LayerFooter, nil
	case "footnote":
		return LayerFootnote, nil
	}
	return LayerBody, fmt.Errorf("unknown content layer %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (l ContentLayer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *ContentLayer) UnmarshalText(text []byte) error {
	parsed, err := ParseContentLayer(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
