package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// column describes one table column. Cells wider than Max (when > 0) are
// cut to Max cells and end in an ellipsis.
type column struct {
	Title string
	Right bool
	Max   int
}

func (c column) fit(cell string) string {
	if c.Max > 0 && displayWidth(cell) > c.Max {
		return runewidth.Truncate(cell, c.Max, ellipsis)
	}
	return cell
}

// formatTable lays rows out under cols. Rows shorter than cols get blank
// cells and extra cells are dropped.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = displayWidth(c.Title)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			if i < len(row) {
				cells[r][i] = c.fit(row[i])
			}
			widths[i] = max(widths[i], displayWidth(cells[r][i]))
		}
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, header, widths))
	for _, row := range cells {
		lines = append(lines, joinCells(cols, row, widths))
	}
	return lines
}

func joinCells(cols []column, row []string, widths []int) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(' ')
		}
		cell := padCell(row[i], widths[i], c.Right)
		if i == len(cols)-1 && !c.Right {
			cell = strings.TrimRight(cell, " ")
		}
		b.WriteString(cell)
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
