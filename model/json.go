package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type nodeJSON struct {
	ID          string           `json:"id"`
	Content     json.RawMessage  `json:"content"`
	Parent      *NodeIndex       `json:"parent"`
	Children    []NodeIndex      `json:"children"`
	Layer       ContentLayer     `json:"content_layer"`
	Page        int              `json:"page"`
	PageEnd     *int             `json:"page_end,omitempty"`
	BBox        *BBox            `json:"bbox,omitempty"`
	Annotations []TextAnnotation `json:"annotations"`
}

// MarshalJSON encodes the node with its content tagged by node_type and a
// null parent for roots.
func (n DocumentNode) MarshalJSON() ([]byte, error) {
	content, err := MarshalContent(n.Content)
	if err != nil {
		return nil, err
	}
	out := nodeJSON{
		ID:          n.ID,
		Content:     content,
		Children:    n.Children,
		Layer:       n.Layer,
		Page:        n.Page,
		PageEnd:     n.PageEnd,
		BBox:        n.BBox,
		Annotations: n.Annotations,
	}
	if n.Parent != NoParent {
		p := n.Parent
		out.Parent = &p
	}
	if out.Children == nil {
		out.Children = []NodeIndex{}
	}
	if out.Annotations == nil {
		out.Annotations = []TextAnnotation{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the output of MarshalJSON
func (n *DocumentNode) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	content, err := UnmarshalContent(in.Content)
	if err != nil {
		return fmt.Errorf("node %q: %w", in.ID, err)
	}
	*n = DocumentNode{
		ID:          in.ID,
		Content:     content,
		Parent:      NoParent,
		Layer:       in.Layer,
		Page:        in.Page,
		PageEnd:     in.PageEnd,
		BBox:        in.BBox,
		Annotations: in.Annotations,
	}
	if in.Parent != nil {
		n.Parent = *in.Parent
	}
	if len(in.Children) > 0 {
		n.Children = in.Children
	}
	return nil
}

// MarshalJSON encodes the structure as {"nodes": [...]}
func (d DocumentStructure) MarshalJSON() ([]byte, error) {
	nodes := d.Nodes
	if nodes == nil {
		nodes = []DocumentNode{}
	}
	return json.Marshal(struct {
		Nodes []DocumentNode `json:"nodes"`
	}{nodes})
}

// UnmarshalJSON decodes the output of MarshalJSON
func (d *DocumentStructure) UnmarshalJSON(data []byte) error {
	var in struct {
		Nodes []DocumentNode `json:"nodes"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.Nodes = in.Nodes
	if d.Nodes == nil {
		d.Nodes = []DocumentNode{}
	}
	return nil
}

// MarshalContent encodes a NodeContent as a JSON object whose first member
// is "node_type".
func MarshalContent(c NodeContent) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshal content: nil content")
	}
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal %s content: %w", c.NodeType(), err)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"node_type":`)
	tag, _ := json.Marshal(string(c.NodeType()))
	buf.Write(tag)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalContent decodes the output of MarshalContent
func UnmarshalContent(data []byte) (NodeContent, error) {
	var tag struct {
		NodeType NodeType `json:"node_type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}

	var (
		c   NodeContent
		err error
	)
	switch tag.NodeType {
	case NodeTypeTitle:
		c, err = decodeAs[Title](data)
	case NodeTypeHeading:
		c, err = decodeAs[Heading](data)
	case NodeTypeParagraph:
		c, err = decodeAs[Paragraph](data)
	case NodeTypeList:
		c, err = decodeAs[List](data)
	case NodeTypeListItem:
		c, err = decodeAs[ListItem](data)
	case NodeTypeTable:
		c, err = decodeAs[Table](data)
	case NodeTypeImage:
		c, err = decodeAs[Image](data)
	case NodeTypeCode:
		c, err = decodeAs[Code](data)
	case NodeTypeQuote:
		c = Quote{}
	case NodeTypeFormula:
		c, err = decodeAs[Formula](data)
	case NodeTypeFootnote:
		c, err = decodeAs[Footnote](data)
	case NodeTypeGroup:
		c, err = decodeAs[Group](data)
	case NodeTypePageBreak:
		c = PageBreak{}
	default:
		return nil, fmt.Errorf("unmarshal content: unknown node_type %q", tag.NodeType)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s content: %w", tag.NodeType, err)
	}
	return c, nil
}

func decodeAs[T NodeContent](data []byte) (NodeContent, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
