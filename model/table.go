package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrid is returned by TableGrid.Validate for a grid whose cells do
// not fit its declared dimensions.
var ErrInvalidGrid = errors.New("invalid table grid")

// TableGrid represents a table as a sparse list of cells placed on a
// rows x cols grid. Spanning cells occupy the slots to their right and below.
type TableGrid struct {
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	Cells []TableCell `json:"cells"`
}

// TableCell represents a table cell
type TableCell struct {
	Content  string `json:"content"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	RowSpan  int    `json:"row_span"`
	ColSpan  int    `json:"col_span"`
	IsHeader bool   `json:"is_header"`
	BBox     *BBox  `json:"bbox,omitempty"`
}

// NewTableGrid creates an empty grid with the given dimensions
func NewTableGrid(rows, cols int) TableGrid {
	return TableGrid{Rows: rows, Cols: cols, Cells: []TableCell{}}
}

// NewTableGridFromRows builds a grid from a dense matrix of cell contents.
// Rows shorter than the widest row are padded with empty cells. When header
// is true the first row is marked as a header row.
func NewTableGridFromRows(rows [][]string, header bool) TableGrid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	g := NewTableGrid(len(rows), cols)
	for i, r := range rows {
		for j := 0; j < cols; j++ {
			content := ""
			if j < len(r) {
				content = r[j]
			}
			g.Cells = append(g.Cells, TableCell{
				Content:  content,
				Row:      i,
				Col:      j,
				RowSpan:  1,
				ColSpan:  1,
				IsHeader: header && i == 0,
			})
		}
	}
	return g
}

// AddCell appends a cell, defaulting zero spans to 1
func (g *TableGrid) AddCell(cell TableCell) {
	if cell.RowSpan == 0 {
		cell.RowSpan = 1
	}
	if cell.ColSpan == 0 {
		cell.ColSpan = 1
	}
	g.Cells = append(g.Cells, cell)
}

// GetCell returns the cell anchored at row, col or nil
func (g TableGrid) GetCell(row, col int) *TableCell {
	for i := range g.Cells {
		if g.Cells[i].Row == row && g.Cells[i].Col == col {
			return &g.Cells[i]
		}
	}
	return nil
}

// Validate checks that the dimensions are positive and every cell fits the grid.
func (g TableGrid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	for i, c := range g.Cells {
		switch {
		case c.RowSpan < 1 || c.ColSpan < 1:
			return fmt.Errorf("%w: cell %d has span %dx%d", ErrInvalidGrid, i, c.RowSpan, c.ColSpan)
		case c.Row < 0 || c.Row >= g.Rows:
			return fmt.Errorf("%w: cell %d row %d out of range", ErrInvalidGrid, i, c.Row)
		case c.Col < 0 || c.Col >= g.Cols:
			return fmt.Errorf("%w: cell %d col %d out of range", ErrInvalidGrid, i, c.Col)
		case c.Row+c.RowSpan > g.Rows:
			return fmt.Errorf("%w: cell %d row span exceeds %d rows", ErrInvalidGrid, i, g.Rows)
		case c.Col+c.ColSpan > g.Cols:
			return fmt.Errorf("%w: cell %d col span exceeds %d cols", ErrInvalidGrid, i, g.Cols)
		}
	}
	return nil
}

// Matrix returns the grid as a dense rows x cols matrix of contents.
// A spanning cell's content appears in its anchor slot only.
func (g TableGrid) Matrix() [][]string {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil
	}
	m := make([][]string, g.Rows)
	for i := range m {
		m[i] = make([]string, g.Cols)
	}
	for _, c := range g.Cells {
		if c.Row < 0 || c.Row >= g.Rows || c.Col < 0 || c.Col >= g.Cols {
			continue
		}
		m[c.Row][c.Col] = c.Content
	}
	return m
}

// GetText returns the table contents, tab separated, one row per line
func (g TableGrid) GetText() string {
	var sb strings.Builder
	for _, row := range g.Matrix() {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (g TableGrid) ToMarkdown() string {
	rows := g.Matrix()
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	// Header row
	writeRow(rows[0])

	// Separator
	for range rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	// Data rows
	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (g TableGrid) ToCSV() string {
	var sb strings.Builder
	for _, row := range g.Matrix() {
		for j, text := range row {
			// Escape quotes and wrap in quotes if necessary
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
