package htmldoc

import (
	"golang.org/x/net/html"

	"github.com/tsawler/strata/model"
)

// parseTable converts a table element into a grid, placing spanning cells
// the way browsers do: each cell takes the first free slot of its row.
// It reports false for a table without cells.
func parseTable(tableNode *html.Node) (model.TableGrid, bool) {
	var rows []*html.Node
	headerRows := make(map[*html.Node]bool)

	// Find thead, tbody, tfoot, or direct tr children
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.Data == "tr" {
					rows = append(rows, r)
					headerRows[r] = c.Data == "thead"
				}
			}
		case "tr":
			rows = append(rows, c)
		}
	}

	var cells []model.TableCell
	occupied := make(map[[2]int]bool)
	cols := 0
	rowCount := 0

	for i, tr := range rows {
		col := 0
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			for occupied[[2]int{i, col}] {
				col++
			}

			rowSpan := spanAttr(c, "rowspan")
			colSpan := spanAttr(c, "colspan")
			// Spans never reach past the last row
			if i+rowSpan > len(rows) {
				rowSpan = len(rows) - i
			}

			cells = append(cells, model.TableCell{
				Content:  getTextContent(c),
				Row:      i,
				Col:      col,
				RowSpan:  rowSpan,
				ColSpan:  colSpan,
				IsHeader: headerRows[tr] || c.Data == "th",
			})
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{i + dr, col + dc}] = true
				}
			}

			col += colSpan
			cols = max(cols, col)
			rowCount = max(rowCount, i+rowSpan)
		}
	}

	if len(cells) == 0 {
		return model.TableGrid{}, false
	}

	grid := model.NewTableGrid(rowCount, cols)
	for _, cell := range cells {
		grid.AddCell(cell)
	}
	return grid, true
}
