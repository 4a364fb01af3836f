package structure

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/strata/model"
)

// NodeNamespace is the UUID namespace node identifiers are derived in
var NodeNamespace = uuid.MustParse("6f1c0d52-8a43-5b7e-9d21-3c8e4f7a2b90")

const fieldSep = "\x1f"

// NodeID returns the deterministic identifier of a node: a version 5 UUID
// over its content, layer, page, position among its siblings and the
// identifier of its parent ("" for roots).
func NodeID(node *model.DocumentNode, position int, parentID string) string {
	var sb strings.Builder
	writeField := func(s string) {
		sb.WriteString(s)
		sb.WriteString(fieldSep)
	}

	writeField(string(node.Content.NodeType()))
	writeField(norm.NFC.String(node.Text()))
	for _, f := range variantFields(node.Content) {
		writeField(f)
	}
	writeField(node.Layer.String())
	writeField(strconv.Itoa(node.Page))
	writeField(strconv.Itoa(position))
	sb.WriteString(parentID)

	return uuid.NewSHA1(NodeNamespace, []byte(sb.String())).String()
}

// AssignIDs sets the ID of every node. Parents always precede their
// children in a structure built by Builder, but any valid structure works.
func AssignIDs(doc *model.DocumentStructure) {
	var assign func(idx model.NodeIndex, position int, parentID string)
	assign = func(idx model.NodeIndex, position int, parentID string) {
		node := doc.Get(idx)
		node.ID = NodeID(node, position, parentID)
		for i, child := range node.Children {
			assign(child, i, node.ID)
		}
	}
	for i, root := range doc.Roots() {
		assign(root, i, "")
	}
}

// variantFields lists the fields of a variant that are not its text
func variantFields(c model.NodeContent) []string {
	switch v := c.(type) {
	case model.Heading:
		return []string{strconv.Itoa(v.Level)}
	case model.List:
		return []string{strconv.FormatBool(v.Ordered)}
	case model.Code:
		return []string{v.Language}
	case model.Image:
		idx := ""
		if v.ImageIndex != nil {
			idx = strconv.Itoa(*v.ImageIndex)
		}
		return []string{norm.NFC.String(v.Description), idx}
	case model.Group:
		return []string{norm.NFC.String(v.Label), strconv.Itoa(v.HeadingLevel)}
	case model.Table:
		fields := []string{strconv.Itoa(v.Grid.Rows), strconv.Itoa(v.Grid.Cols)}
		for _, cell := range v.Grid.Cells {
			fields = append(fields,
				strconv.Itoa(cell.Row), strconv.Itoa(cell.Col),
				strconv.Itoa(cell.RowSpan), strconv.Itoa(cell.ColSpan),
				strconv.FormatBool(cell.IsHeader),
				norm.NFC.String(cell.Content))
		}
		return fields
	}
	return nil
}
