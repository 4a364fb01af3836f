package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBox(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)
	if bbox.X != 10 || bbox.Y != 20 || bbox.Width != 100 || bbox.Height != 50 {
		t.Errorf("NewBBox() = %+v, want {10, 20, 100, 50}", bbox)
	}
}

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   BBox
	}{
		{"normal", Point{10, 20}, Point{50, 70}, BBox{10, 20, 40, 50}},
		{"reversed", Point{50, 70}, Point{10, 20}, BBox{10, 20, 40, 50}},
		{"same point", Point{10, 10}, Point{10, 10}, BBox{10, 10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBBoxFromPoints(tt.p1, tt.p2)
			if got != tt.want {
				t.Errorf("NewBBoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	bbox := NewBBox(10, 20, 100, 50)

	if bbox.Left() != 10 {
		t.Errorf("Left() = %v, want 10", bbox.Left())
	}
	if bbox.Right() != 110 {
		t.Errorf("Right() = %v, want 110", bbox.Right())
	}
	if bbox.Bottom() != 20 {
		t.Errorf("Bottom() = %v, want 20", bbox.Bottom())
	}
	if bbox.Top() != 70 {
		t.Errorf("Top() = %v, want 70", bbox.Top())
	}
}

func TestBBoxCenter(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 50)
	center := bbox.Center()

	if center.X != 50 || center.Y != 25 {
		t.Errorf("Center() = %+v, want {50, 25}", center)
	}
}

func TestBBoxIntersects(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		other    BBox
		expected bool
	}{
		{"overlapping", NewBBox(50, 50, 100, 100), true},
		{"touching edge", NewBBox(100, 0, 50, 50), true},
		{"inside", NewBBox(25, 25, 50, 50), true},
		{"containing", NewBBox(-10, -10, 200, 200), true},
		{"no overlap right", NewBBox(150, 0, 50, 50), false},
		{"no overlap left", NewBBox(-100, 0, 50, 50), false},
		{"no overlap above", NewBBox(0, 150, 50, 50), false},
		{"no overlap below", NewBBox(0, -100, 50, 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bbox.Intersects(tt.other)
			if result != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, result, tt.expected)
			}
		})
	}
}

func TestBBoxIntersection(t *testing.T) {
	bbox := NewBBox(0, 0, 100, 100)

	t.Run("overlapping boxes", func(t *testing.T) {
		other := NewBBox(50, 50, 100, 100)
		result := bbox.Intersection(other)

		if result.X != 50 || result.Y != 50 || result.Width != 50 || result.Height != 50 {
			t.Errorf("Intersection() = %+v, want {50, 50, 50, 50}", result)
		}
	})

	t.Run("non-overlapping boxes", func(t *testing.T) {
		other := NewBBox(200, 200, 50, 50)
		result := bbox.Intersection(other)

		if result != (BBox{}) {
			t.Errorf("Intersection() = %+v, want empty BBox", result)
		}
	})
}

func TestBBoxUnion(t *testing.T) {
	bbox1 := NewBBox(0, 0, 50, 50)
	bbox2 := NewBBox(25, 25, 75, 75)

	result := bbox1.Union(bbox2)

	if result.X != 0 || result.Y != 0 || result.Width != 100 || result.Height != 100 {
		t.Errorf("Union() = %+v, want {0, 0, 100, 100}", result)
	}
}

func TestBBoxArea(t *testing.T) {
	bbox := NewBBox(0, 0, 10, 20)
	if bbox.Area() != 200 {
		t.Errorf("Area() = %v, want 200", bbox.Area())
	}
}

func TestBBoxIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		bbox     BBox
		expected bool
	}{
		{"valid box", NewBBox(0, 0, 10, 10), false},
		{"zero width", NewBBox(0, 0, 0, 10), true},
		{"zero height", NewBBox(0, 0, 10, 0), true},
		{"negative width", NewBBox(0, 0, -10, 10), true},
		{"negative height", NewBBox(0, 0, 10, -10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.bbox.IsEmpty() != tt.expected {
				t.Errorf("IsEmpty() = %v, want %v", tt.bbox.IsEmpty(), tt.expected)
			}
		})
	}
}

func TestNewBBoxFromEdges(t *testing.T) {
	got := NewBBoxFromEdges(50, 70, 10, 20)
	want := BBox{10, 20, 40, 50}
	if got != want {
		t.Errorf("NewBBoxFromEdges() = %+v, want %+v", got, want)
	}
}

func TestBBoxIntersectionRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     BBox
		expected float64
	}{
		{"contained", NewBBox(10, 10, 10, 10), NewBBox(0, 0, 100, 100), 1},
		{"quarter", NewBBox(0, 0, 10, 10), NewBBox(5, 5, 10, 10), 0.25},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(50, 50, 10, 10), 0},
		{"zero area receiver", NewBBox(5, 5, 0, 0), NewBBox(0, 0, 10, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.IntersectionRatio(tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("IntersectionRatio() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBBoxGap(t *testing.T) {
	tests := []struct {
		name   string
		a, b   BBox
		dx, dy float64
	}{
		{"right of", NewBBox(0, 0, 10, 10), NewBBox(15, 0, 10, 10), 5, 0},
		{"left of", NewBBox(15, 0, 10, 10), NewBBox(0, 0, 10, 10), 5, 0},
		{"below", NewBBox(0, 20, 10, 10), NewBBox(0, 0, 10, 12), 0, 8},
		{"overlapping", NewBBox(0, 0, 10, 10), NewBBox(5, 5, 10, 10), 0, 0},
		{"diagonal", NewBBox(0, 0, 10, 10), NewBBox(13, 14, 2, 2), 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := tt.a.Gap(tt.b)
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("Gap() = (%v, %v), want (%v, %v)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestBBoxAreaNegative(t *testing.T) {
	if a := NewBBox(0, 0, -10, 10).Area(); a != 0 {
		t.Errorf("Area() = %v, want 0", a)
	}
}

// ============================================================================
// Hierarchy Level Tests
// ============================================================================

func TestHierarchyLevelString(t *testing.T) {
	tests := []struct {
		level    HierarchyLevel
		expected string
	}{
		{LevelH1, "h1"},
		{LevelH2, "h2"},
		{LevelH3, "h3"},
		{LevelH4, "h4"},
		{LevelH5, "h5"},
		{LevelH6, "h6"},
		{LevelBody, "body"},
		{HierarchyLevel(42), "body"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("HierarchyLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestHierarchyLevelText(t *testing.T) {
	for _, level := range []HierarchyLevel{LevelBody, LevelH1, LevelH3, LevelH6} {
		text, err := level.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		var got HierarchyLevel
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != level {
			t.Errorf("round trip of %v = %v", level, got)
		}
	}

	var l HierarchyLevel
	if err := l.UnmarshalText([]byte("h7")); err == nil {
		t.Error("UnmarshalText(h7) should fail")
	}
}

func TestHierarchyLevelHeadingNumber(t *testing.T) {
	if LevelBody.IsHeading() {
		t.Error("body should not be a heading")
	}
	if LevelH6.HeadingNumber() != 6 {
		t.Errorf("HeadingNumber() = %d, want 6", LevelH6.HeadingNumber())
	}
	if LevelBody.HeadingNumber() != 0 {
		t.Errorf("HeadingNumber() = %d, want 0", LevelBody.HeadingNumber())
	}
}

func TestPageHierarchyJSON(t *testing.T) {
	bbox := NewBBox(0, 0, 10, 10)
	h := NewPageHierarchy([]HierarchicalBlock{
		{Text: "Title", Level: LevelH1, FontSize: 24, BBox: &bbox},
		{Text: "body", Level: LevelBody, FontSize: 12},
	})

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"block_count":2`, `"level":"h1"`, `"level":"body"`, `"bbox":{"x":0`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
	if strings.Count(s, `"bbox"`) != 1 {
		t.Errorf("JSON %s should omit nil bbox", s)
	}
	if len(h.Headings()) != 1 {
		t.Errorf("Headings() len = %d, want 1", len(h.Headings()))
	}
}

func TestEmptyPageHierarchy(t *testing.T) {
	h := NewPageHierarchy(nil)
	data, _ := json.Marshal(h)
	if string(data) != `{"block_count":0,"blocks":[]}` {
		t.Errorf("Marshal() = %s", data)
	}
}

// ============================================================================
// Content Layer Tests
// ============================================================================

func TestContentLayerText(t *testing.T) {
	for _, layer := range []ContentLayer{LayerBody, LayerHeader, LayerFooter, LayerFootnote} {
		text, _ := layer.MarshalText()
		var got ContentLayer
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != layer {
			t.Errorf("round trip of %v = %v", layer, got)
		}
	}
	if _, err := ParseContentLayer("sidebar"); err == nil {
		t.Error("ParseContentLayer(sidebar) should fail")
	}
}

// ============================================================================
// Node Content Tests
// ============================================================================

func TestNodeContentTypes(t *testing.T) {
	tests := []struct {
		content  NodeContent
		expected NodeType
	}{
		{Title{Text: "t"}, NodeTypeTitle},
		{Heading{Level: 2, Text: "h"}, NodeTypeHeading},
		{Paragraph{Text: "p"}, NodeTypeParagraph},
		{List{Ordered: true}, NodeTypeList},
		{ListItem{Text: "i"}, NodeTypeListItem},
		{Table{Grid: NewTableGrid(1, 1)}, NodeTypeTable},
		{Image{}, NodeTypeImage},
		{Code{Text: "x"}, NodeTypeCode},
		{Quote{}, NodeTypeQuote},
		{Formula{Text: "x^2"}, NodeTypeFormula},
		{Footnote{Text: "1"}, NodeTypeFootnote},
		{Group{Label: "g"}, NodeTypeGroup},
		{PageBreak{}, NodeTypePageBreak},
	}

	for _, tt := range tests {
		if got := tt.content.NodeType(); got != tt.expected {
			t.Errorf("NodeType() = %q, want %q", got, tt.expected)
		}
	}
}

func TestTextOf(t *testing.T) {
	if text, ok := TextOf(Heading{Level: 1, Text: "Intro"}); !ok || text != "Intro" {
		t.Errorf("TextOf(Heading) = %q, %v", text, ok)
	}
	if _, ok := TextOf(List{}); ok {
		t.Error("TextOf(List) should report no text")
	}
	if text, ok := TextOf(Group{HeadingText: "Part"}); !ok || text != "Part" {
		t.Errorf("TextOf(Group) = %q, %v", text, ok)
	}
	if _, ok := TextOf(Group{Label: "x"}); ok {
		t.Error("TextOf(Group without heading) should report no text")
	}
}

func TestContentJSONRoundTrip(t *testing.T) {
	idx := 3
	contents := []NodeContent{
		Title{Text: "t"},
		Heading{Level: 2, Text: "h"},
		Paragraph{Text: "p"},
		List{Ordered: true},
		ListItem{Text: "i"},
		Table{Grid: NewTableGridFromRows([][]string{{"a", "b"}}, true)},
		Image{Description: "fig", ImageIndex: &idx},
		Code{Text: "x := 1", Language: "go"},
		Quote{},
		Formula{Text: "x^2"},
		Footnote{Text: "note"},
		Group{Label: "g", HeadingLevel: 2, HeadingText: "G"},
		PageBreak{},
	}

	for _, c := range contents {
		data, err := MarshalContent(c)
		if err != nil {
			t.Fatalf("MarshalContent(%T) error = %v", c, err)
		}
		if !strings.HasPrefix(string(data), `{"node_type":"`+string(c.NodeType())+`"`) {
			t.Errorf("MarshalContent(%T) = %s, want node_type first", c, data)
		}
		got, err := UnmarshalContent(data)
		if err != nil {
			t.Fatalf("UnmarshalContent(%s) error = %v", data, err)
		}
		again, _ := MarshalContent(got)
		if string(again) != string(data) {
			t.Errorf("round trip of %T = %s, want %s", c, again, data)
		}
	}
}

func TestUnmarshalContentUnknown(t *testing.T) {
	if _, err := UnmarshalContent([]byte(`{"node_type":"sidebar"}`)); err == nil {
		t.Error("UnmarshalContent should reject unknown node_type")
	}
}

// ============================================================================
// Annotation Tests
// ============================================================================

func TestTextAnnotationValidate(t *testing.T) {
	tests := []struct {
		name    string
		ann     TextAnnotation
		textLen int
		wantErr bool
	}{
		{"inside", TextAnnotation{Start: 0, End: 4, Kind: AnnotationBold}, 5, false},
		{"whole text", TextAnnotation{Start: 0, End: 5, Kind: AnnotationItalic}, 5, false},
		{"empty span", TextAnnotation{Start: 2, End: 2, Kind: AnnotationCode}, 5, false},
		{"past end", TextAnnotation{Start: 3, End: 6, Kind: AnnotationBold}, 5, true},
		{"negative start", TextAnnotation{Start: -1, End: 2, Kind: AnnotationBold}, 5, true},
		{"reversed", TextAnnotation{Start: 3, End: 2, Kind: AnnotationBold}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ann.Validate(tt.textLen)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrAnnotationBounds) {
				t.Errorf("Validate() error = %v, want ErrAnnotationBounds", err)
			}
		})
	}
}

// ============================================================================
// Table Grid Tests
// ============================================================================

func TestTableGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    TableGrid
		wantErr bool
	}{
		{"dense", NewTableGridFromRows([][]string{{"a", "b"}, {"c", "d"}}, true), false},
		{"spanning", TableGrid{Rows: 2, Cols: 2, Cells: []TableCell{
			{Content: "wide", Row: 0, Col: 0, RowSpan: 1, ColSpan: 2},
			{Content: "x", Row: 1, Col: 0, RowSpan: 1, ColSpan: 1},
		}}, false},
		{"zero rows", TableGrid{Rows: 0, Cols: 2}, true},
		{"row out of range", TableGrid{Rows: 1, Cols: 1, Cells: []TableCell{{Row: 1, Col: 0, RowSpan: 1, ColSpan: 1}}}, true},
		{"col span overflow", TableGrid{Rows: 1, Cols: 2, Cells: []TableCell{{Row: 0, Col: 1, RowSpan: 1, ColSpan: 2}}}, true},
		{"row span overflow", TableGrid{Rows: 2, Cols: 1, Cells: []TableCell{{Row: 1, Col: 0, RowSpan: 2, ColSpan: 1}}}, true},
		{"zero span", TableGrid{Rows: 1, Cols: 1, Cells: []TableCell{{Row: 0, Col: 0}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("Validate() error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestTableGridAddCell(t *testing.T) {
	g := NewTableGrid(1, 1)
	g.AddCell(TableCell{Content: "x"})
	c := g.GetCell(0, 0)
	if c == nil || c.RowSpan != 1 || c.ColSpan != 1 {
		t.Errorf("AddCell() did not default spans: %+v", c)
	}
	if g.GetCell(3, 3) != nil {
		t.Error("GetCell(3, 3) should be nil")
	}
}

func TestTableGridToMarkdown(t *testing.T) {
	g := NewTableGridFromRows([][]string{
		{"Header1", "Header2"},
		{"Data1", "Data2"},
		{"Data3"},
	}, true)

	md := g.ToMarkdown()

	if !strings.Contains(md, "| Header1 | Header2 |") {
		t.Error("markdown should contain header row")
	}
	if !strings.Contains(md, "|---|---|") {
		t.Error("markdown should contain separator")
	}
	if !strings.Contains(md, "| Data3 |  |") {
		t.Errorf("markdown should pad short rows, got:\n%s", md)
	}
}

func TestTableGridToMarkdown_Empty(t *testing.T) {
	if md := (TableGrid{}).ToMarkdown(); md != "" {
		t.Error("empty table should produce empty markdown")
	}
}

func TestTableGridToCSV_SpecialChars(t *testing.T) {
	g := NewTableGridFromRows([][]string{{"Hello, World", `Say "Hi"`}}, false)

	csv := g.ToCSV()

	if !strings.Contains(csv, `"Hello, World"`) {
		t.Error("CSV should quote cells with commas")
	}
	if !strings.Contains(csv, `"Say ""Hi"""`) {
		t.Error("CSV should escape quotes")
	}
}

// ============================================================================
// Document Structure Tests
// ============================================================================

func buildSample() *DocumentStructure {
	d := NewDocumentStructure()
	h1 := d.AddNode(DocumentNode{Content: Heading{Level: 1, Text: "Title"}, Page: 1}, NoParent)
	h2 := d.AddNode(DocumentNode{Content: Heading{Level: 2, Text: "Intro"}, Page: 1}, h1)
	d.AddNode(DocumentNode{Content: Paragraph{Text: "body text"}, Page: 1}, h2)
	d.AddNode(DocumentNode{Content: Paragraph{Text: "footer"}, Layer: LayerFooter, Page: 1}, NoParent)
	return d
}

func TestDocumentStructureAddNode(t *testing.T) {
	d := buildSample()

	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}
	roots := d.Roots()
	if len(roots) != 2 || roots[0] != 0 || roots[1] != 3 {
		t.Errorf("Roots() = %v, want [0 3]", roots)
	}
	if p, ok := d.Parent(2); !ok || p != 1 {
		t.Errorf("Parent(2) = %d, %v, want 1, true", p, ok)
	}
	if _, ok := d.Parent(0); ok {
		t.Error("Parent(0) should report no parent")
	}
	if got := d.Children(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("Children(0) = %v, want [1]", got)
	}
	if d.Depth(2) != 2 {
		t.Errorf("Depth(2) = %d, want 2", d.Depth(2))
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDocumentStructureAddNodeInvalidParent(t *testing.T) {
	d := NewDocumentStructure()
	idx := d.AddNode(DocumentNode{Content: Paragraph{Text: "x"}}, 7)
	if !d.Get(idx).IsRoot() {
		t.Error("node with missing parent should become a root")
	}
}

func TestDocumentStructureWalk(t *testing.T) {
	d := buildSample()

	var order []NodeIndex
	var depths []int
	d.Walk(func(idx NodeIndex, depth int) bool {
		order = append(order, idx)
		depths = append(depths, depth)
		return true
	})
	want := []NodeIndex{0, 1, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Walk() order = %v, want %v", order, want)
		}
	}
	if depths[2] != 2 || depths[3] != 0 {
		t.Errorf("Walk() depths = %v", depths)
	}

	count := 0
	d.Walk(func(idx NodeIndex, depth int) bool {
		count++
		return false
	})
	if count != 2 {
		t.Errorf("Walk() with pruning visited %d nodes, want 2", count)
	}
}

func TestDocumentStructureAppend(t *testing.T) {
	d := buildSample()
	other := buildSample()
	d.Append(other)

	if d.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", d.Len())
	}
	if p, _ := d.Parent(6); p != 5 {
		t.Errorf("Parent(6) = %d, want 5", p)
	}
	if c := d.Children(4); len(c) != 1 || c[0] != 5 {
		t.Errorf("Children(4) = %v, want [5]", c)
	}
	// The source structure is untouched
	if c := other.Children(0); c[0] != 1 {
		t.Errorf("Append() modified its argument: %v", c)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDocumentStructureValidate(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		d := &DocumentStructure{Nodes: []DocumentNode{
			{Content: Paragraph{}, Parent: 1, Children: []NodeIndex{1}},
			{Content: Paragraph{}, Parent: 0, Children: []NodeIndex{0}},
		}}
		if err := d.Validate(); !errors.Is(err, ErrInvalidStructure) {
			t.Errorf("Validate() error = %v, want ErrInvalidStructure", err)
		}
	})

	t.Run("missing back reference", func(t *testing.T) {
		d := &DocumentStructure{Nodes: []DocumentNode{
			{Content: Paragraph{}, Parent: NoParent},
			{Content: Paragraph{}, Parent: 0},
		}}
		if err := d.Validate(); !errors.Is(err, ErrInvalidStructure) {
			t.Errorf("Validate() error = %v, want ErrInvalidStructure", err)
		}
	})

	t.Run("annotation past text", func(t *testing.T) {
		d := NewDocumentStructure()
		d.AddNode(DocumentNode{
			Content:     Paragraph{Text: "héllo"},
			Annotations: []TextAnnotation{{Start: 0, End: 6, Kind: AnnotationBold}},
		}, NoParent)
		err := d.Validate()
		if !errors.Is(err, ErrInvalidStructure) || !errors.Is(err, ErrAnnotationBounds) {
			t.Errorf("Validate() error = %v, want both sentinels", err)
		}
	})

	t.Run("rune offsets", func(t *testing.T) {
		d := NewDocumentStructure()
		d.AddNode(DocumentNode{
			Content:     Paragraph{Text: "héllo"},
			Annotations: []TextAnnotation{{Start: 0, End: 5, Kind: AnnotationBold}},
		}, NoParent)
		if err := d.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestDocumentStructureJSON(t *testing.T) {
	d := buildSample()
	d.Nodes[2].Annotations = []TextAnnotation{{Start: 0, End: 4, Kind: AnnotationLink, URL: "https://example.com"}}
	end := 2
	d.Nodes[0].PageEnd = &end

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"parent":null`,
		`"parent":0`,
		`"content":{"node_type":"heading","level":1,"text":"Title"}`,
		`"content_layer":"footer"`,
		`"page_end":2`,
		`"kind":"link"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s in %s", want, s)
		}
	}

	var back DocumentStructure
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	again, _ := json.Marshal(&back)
	if string(again) != s {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", again, s)
	}
	if err := back.Validate(); err != nil {
		t.Errorf("Validate() after round trip error = %v", err)
	}
}
