package tui

import (
	"fmt"
	"iter"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/pace"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

const chipSeparator = "  "

func chipWidth(s model.Split) int {
	return runewidth.StringWidth(pace.FormatSplit(s))
}

// layoutChips packs splits greedily into rows no wider than width, the way
// wrapStyledRunes breaks them, and stops pulling from splits once maxRows
// screen lines are used. A chip wider than width takes several lines. more
// reports whether splits had rows left.
func layoutChips(splits iter.Seq[model.Split], width, maxRows int) (rows [][]model.Split, more bool) {
	if width < 1 {
		width = 1
	}
	used := 0
	rowWidth := 0
	sep := runewidth.StringWidth(chipSeparator)
	for s := range splits {
		w := chipWidth(s)
		if len(rows) > 0 && rowWidth+sep+w <= width {
			last := len(rows) - 1
			rows[last] = append(rows[last], s)
			rowWidth += sep + w
			continue
		}
		need := (w + width - 1) / width
		if used+need > maxRows {
			return rows, true
		}
		rows = append(rows, []model.Split{s})
		used += need
		rowWidth = w
	}
	return rows, false
}

// buildChipRunes lays split rows out as "1000m: 04:30" chips. Only the
// separators between chips are break points.
func buildChipRunes(splits []model.Split) []styledRune {
	out := make([]styledRune, 0, len(splits)*16)
	for i, s := range splits {
		if i > 0 {
			for _, r := range chipSeparator {
				out = append(out, styledRune{s: string(r), width: 1, isSpace: true})
			}
		}
		marker := fmt.Sprintf("%dm:", s.Marker)
		for _, r := range marker {
			out = append(out, styledRune{s: markerStyle.Render(string(r)), width: runewidth.RuneWidth(r)})
		}
		out = append(out, styledRune{s: " ", width: 1})
		for _, r := range pace.FormatClock(s.Elapsed) {
			out = append(out, styledRune{s: chipStyle.Render(string(r)), width: runewidth.RuneWidth(r)})
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isSpace && len(line) == 0 {
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(trimTrailingSpace(line[:lastSpaceIdx])))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func trimTrailingSpace(line []styledRune) []styledRune {
	end := len(line)
	for end > 0 && line[end-1].isSpace {
		end--
	}
	return line[:end]
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
