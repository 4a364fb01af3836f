package model

// Character is a single positioned glyph (or short run) produced by a layout
// collaborator for one page.
type Character struct {
	Text     string  `json:"text"`
	Position Point   `json:"position"` // Baseline origin
	FontSize float64 `json:"font_size"`
	BBox     BBox    `json:"bbox"`

	// Bold and Italic report the glyph's font style when the source knows it
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// TextBlock is a merged run of characters treated as one visual text unit.
type TextBlock struct {
	// Text is the concatenation of the merged characters' text in merge order
	Text string `json:"text"`

	// FontSize is the size of the block's first character
	FontSize float64 `json:"font_size"`

	// BBox is the union of all merged characters' boxes
	BBox BBox `json:"bbox"`

	// Annotations mark bold and italic runs that cover part of the text
	Annotations []TextAnnotation `json:"annotations,omitempty"`
}

// FontCluster is one font-size cluster realized on a page.
type FontCluster struct {
	Centroid float64 `json:"centroid"`
	Rank     int     `json:"rank"` // 0 = largest centroid

	// Sizes are the distinct font sizes assigned to this cluster, descending
	Sizes []float64 `json:"sizes,omitempty"`

	// BlockCount is the number of text blocks nearest to this centroid
	BlockCount int `json:"block_count"`
}
