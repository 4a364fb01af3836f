package model

// NodeType names a NodeContent variant. It is the discriminator used when a
// node is serialized.
type NodeType string

const (
	NodeTypeTitle     NodeType = "title"
	NodeTypeHeading   NodeType = "heading"
	NodeTypeParagraph NodeType = "paragraph"
	NodeTypeList      NodeType = "list"
	NodeTypeListItem  NodeType = "list_item"
	NodeTypeTable     NodeType = "table"
	NodeTypeImage     NodeType = "image"
	NodeTypeCode      NodeType = "code"
	NodeTypeQuote     NodeType = "quote"
	NodeTypeFormula   NodeType = "formula"
	NodeTypeFootnote  NodeType = "footnote"
	NodeTypeGroup     NodeType = "group"
	NodeTypePageBreak NodeType = "page_break"
)

// NodeContent is the payload of a DocumentNode. The set of implementations is
// closed: only the types in this package satisfy it.
type NodeContent interface {
	NodeType() NodeType
	isNodeContent()
}

// Title is the document title
type Title struct {
	Text string `json:"text"`
}

// Heading is a section heading, Level 1-6
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Paragraph represents a paragraph of text
type Paragraph struct {
	Text string `json:"text"`
}

// List is a container for ListItem nodes
type List struct {
	Ordered bool `json:"ordered"`
}

// ListItem is a single entry of a List
type ListItem struct {
	Text string `json:"text"`
}

// Table holds a table grid
type Table struct {
	Grid TableGrid `json:"grid"`
}

// Image references an image. ImageIndex points into the caller's image list.
type Image struct {
	Description string `json:"description,omitempty"`
	ImageIndex  *int   `json:"image_index,omitempty"`
}

// Code is a code block
type Code struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Quote is a container for quoted content
type Quote struct{}

// Formula holds a math formula, usually LaTeX
type Formula struct {
	Text string `json:"text"`
}

// Footnote holds footnote text
type Footnote struct {
	Text string `json:"text"`
}

// Group is a labeled section wrapper. HeadingLevel 0 means the group has no
// heading of its own.
type Group struct {
	Label        string `json:"label,omitempty"`
	HeadingLevel int    `json:"heading_level,omitempty"`
	HeadingText  string `json:"heading_text,omitempty"`
}

// PageBreak marks the boundary between pages
type PageBreak struct{}

func (Title) NodeType() NodeType     { return NodeTypeTitle }
func (Heading) NodeType() NodeType   { return NodeTypeHeading }
func (Paragraph) NodeType() NodeType { return NodeTypeParagraph }
func (List) NodeType() NodeType      { return NodeTypeList }
func (ListItem) NodeType() NodeType  { return NodeTypeListItem }
func (Table) NodeType() NodeType     { return NodeTypeTable }
func (Image) NodeType() NodeType     { return NodeTypeImage }
func (Code) NodeType() NodeType      { return NodeTypeCode }
func (Quote) NodeType() NodeType     { return NodeTypeQuote }
func (Formula) NodeType() NodeType   { return NodeTypeFormula }
func (Footnote) NodeType() NodeType  { return NodeTypeFootnote }
func (Group) NodeType() NodeType     { return NodeTypeGroup }
func (PageBreak) NodeType() NodeType { return NodeTypePageBreak }

func (Title) isNodeContent()     {}
func (Heading) isNodeContent()   {}
func (Paragraph) isNodeContent() {}
func (List) isNodeContent()      {}
func (ListItem) isNodeContent()  {}
func (Table) isNodeContent()     {}
func (Image) isNodeContent()     {}
func (Code) isNodeContent()      {}
func (Quote) isNodeContent()     {}
func (Formula) isNodeContent()   {}
func (Footnote) isNodeContent()  {}
func (Group) isNodeContent()     {}
func (PageBreak) isNodeContent() {}

// TextOf returns the text payload of a text-bearing variant. The second
// result is false for containers and other variants without text.
func TextOf(c NodeContent) (string, bool) {
	switch v := c.(type) {
	case Title:
		return v.Text, true
	case Heading:
		return v.Text, true
	case Paragraph:
		return v.Text, true
	case ListItem:
		return v.Text, true
	case Code:
		return v.Text, true
	case Formula:
		return v.Text, true
	case Footnote:
		return v.Text, true
	case Group:
		if v.HeadingText != "" {
			return v.HeadingText, true
		}
	}
	return "", false
}

// IsContainer reports whether nodes of this variant hold children of their own
func IsContainer(c NodeContent) bool {
	switch c.(type) {
	case List, Quote, Group:
		return true
	}
	return false
}
