// Package report renders calculator results as plain text.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, width, rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// columnize lays a table out in side-by-side groups that fit totalWidth.
// All lines must share one display width.
func columnize(lines []string, totalWidth int, gap string) []string {
	if len(lines) < 3 || totalWidth <= 0 {
		return lines
	}
	header, body := lines[0], lines[1:]
	lineWidth := displayWidth(header)
	gapWidth := displayWidth(gap)
	groups := (totalWidth + gapWidth) / (lineWidth + gapWidth)
	if groups <= 1 {
		return lines
	}
	perGroup := (len(body) + groups - 1) / groups
	groups = (len(body) + perGroup - 1) / perGroup

	out := make([]string, 0, perGroup+1)
	out = append(out, strings.TrimRight(strings.Repeat(header+gap, groups), " "))
	blank := strings.Repeat(" ", lineWidth)
	for r := 0; r < perGroup; r++ {
		cells := make([]string, groups)
		for g := 0; g < groups; g++ {
			idx := g*perGroup + r
			if idx < len(body) {
				cells[g] = body[idx]
			} else {
				cells[g] = blank
			}
		}
		out = append(out, strings.TrimRight(strings.Join(cells, gap), " "))
	}
	return out
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
