package model

import (
	"errors"
	"fmt"
)

// ErrInvalidStructure is returned by DocumentStructure.Validate
var ErrInvalidStructure = errors.New("invalid document structure")

// NodeIndex is a position in DocumentStructure.Nodes
type NodeIndex int

// NoParent is the Parent value of a root node
const NoParent NodeIndex = -1

// DocumentNode is one node of a DocumentStructure. Relationships to other
// nodes are indices into the owning structure, never pointers.
type DocumentNode struct {
	ID          string
	Content     NodeContent
	Parent      NodeIndex
	Children    []NodeIndex
	Layer       ContentLayer
	Page        int
	PageEnd     *int
	BBox        *BBox
	Annotations []TextAnnotation
}

// IsRoot reports whether the node has no parent
func (n *DocumentNode) IsRoot() bool {
	return n.Parent == NoParent
}

// Text returns the node's text payload, or "" for variants without text
func (n *DocumentNode) Text() string {
	text, _ := TextOf(n.Content)
	return text
}

// DocumentStructure owns a flat array of nodes forming a forest.
type DocumentStructure struct {
	Nodes []DocumentNode
}

// NewDocumentStructure creates an empty structure
func NewDocumentStructure() *DocumentStructure {
	return &DocumentStructure{Nodes: make([]DocumentNode, 0)}
}

// Len returns the number of nodes
func (d *DocumentStructure) Len() int {
	return len(d.Nodes)
}

// IsEmpty returns true when the structure holds no nodes
func (d *DocumentStructure) IsEmpty() bool {
	return len(d.Nodes) == 0
}

// Get returns the node at idx or nil if idx is out of range
func (d *DocumentStructure) Get(idx NodeIndex) *DocumentNode {
	if !d.valid(idx) {
		return nil
	}
	return &d.Nodes[idx]
}

func (d *DocumentStructure) valid(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(d.Nodes)
}

// AddNode appends node as the last child of parent and returns its index.
// A parent of NoParent, or one that does not exist, makes the node a root.
func (d *DocumentStructure) AddNode(node DocumentNode, parent NodeIndex) NodeIndex {
	if !d.valid(parent) {
		parent = NoParent
	}
	idx := NodeIndex(len(d.Nodes))
	node.Parent = parent
	node.Children = nil
	d.Nodes = append(d.Nodes, node)
	if parent != NoParent {
		d.Nodes[parent].Children = append(d.Nodes[parent].Children, idx)
	}
	return idx
}

// Roots returns the indices of all root nodes in order
func (d *DocumentStructure) Roots() []NodeIndex {
	var roots []NodeIndex
	for i := range d.Nodes {
		if d.Nodes[i].Parent == NoParent {
			roots = append(roots, NodeIndex(i))
		}
	}
	return roots
}

// Children returns the children of idx in document order
func (d *DocumentStructure) Children(idx NodeIndex) []NodeIndex {
	if !d.valid(idx) {
		return nil
	}
	return d.Nodes[idx].Children
}

// Parent returns the parent of idx. The second result is false for roots
// and out-of-range indices.
func (d *DocumentStructure) Parent(idx NodeIndex) (NodeIndex, bool) {
	if !d.valid(idx) || d.Nodes[idx].Parent == NoParent {
		return NoParent, false
	}
	return d.Nodes[idx].Parent, true
}

// Depth returns the number of ancestors of idx, 0 for roots
func (d *DocumentStructure) Depth(idx NodeIndex) int {
	depth := 0
	for steps := 0; steps <= len(d.Nodes); steps++ {
		p, ok := d.Parent(idx)
		if !ok {
			return depth
		}
		depth++
		idx = p
	}
	return depth
}

// Walk visits every node depth first in document order. Returning false from
// fn skips the node's descendants.
func (d *DocumentStructure) Walk(fn func(idx NodeIndex, depth int) bool) {
	var visit func(idx NodeIndex, depth int)
	visit = func(idx NodeIndex, depth int) {
		if !fn(idx, depth) {
			return
		}
		for _, child := range d.Nodes[idx].Children {
			visit(child, depth+1)
		}
	}
	for _, root := range d.Roots() {
		visit(root, 0)
	}
}

// Append copies every node of other into d, shifting its indices.
func (d *DocumentStructure) Append(other *DocumentStructure) {
	if other == nil {
		return
	}
	offset := NodeIndex(len(d.Nodes))
	for _, n := range other.Nodes {
		if n.Parent != NoParent {
			n.Parent += offset
		}
		if len(n.Children) > 0 {
			children := make([]NodeIndex, len(n.Children))
			for i, c := range n.Children {
				children[i] = c + offset
			}
			n.Children = children
		}
		d.Nodes = append(d.Nodes, n)
	}
}

// Validate checks parent/child consistency, acyclicity and annotation bounds.
func (d *DocumentStructure) Validate() error {
	n := len(d.Nodes)
	for i := range d.Nodes {
		node := &d.Nodes[i]
		if node.Content == nil {
			return fmt.Errorf("%w: node %d has no content", ErrInvalidStructure, i)
		}
		if node.Parent != NoParent {
			if !d.valid(node.Parent) {
				return fmt.Errorf("%w: node %d has parent %d out of range", ErrInvalidStructure, i, node.Parent)
			}
			if !containsIndex(d.Nodes[node.Parent].Children, NodeIndex(i)) {
				return fmt.Errorf("%w: node %d missing from children of %d", ErrInvalidStructure, i, node.Parent)
			}
		}
		for _, c := range node.Children {
			if !d.valid(c) || d.Nodes[c].Parent != NodeIndex(i) {
				return fmt.Errorf("%w: node %d lists child %d which does not point back", ErrInvalidStructure, i, c)
			}
		}

		// Following parents must reach a root within n steps
		cur, steps := node.Parent, 0
		for cur != NoParent {
			if steps++; steps > n {
				return fmt.Errorf("%w: node %d is its own ancestor", ErrInvalidStructure, i)
			}
			cur = d.Nodes[cur].Parent
		}

		if len(node.Annotations) > 0 {
			textLen := len([]rune(node.Text()))
			for _, a := range node.Annotations {
				if err := a.Validate(textLen); err != nil {
					return fmt.Errorf("%w: node %d: %w", ErrInvalidStructure, i, err)
				}
			}
		}
	}
	return nil
}

func containsIndex(list []NodeIndex, idx NodeIndex) bool {
	for _, v := range list {
		if v == idx {
			return true
		}
	}
	return false
}
