package tui

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pacecalc/internal/model"
)

func testSplits() []model.Split {
	return []model.Split{
		{Marker: 1000, Elapsed: 270 * time.Second},
		{Marker: 2000, Elapsed: 540 * time.Second},
		{Marker: 3000, Elapsed: 810 * time.Second},
	}
}

func TestBuildChipRunesBreakOnlyBetweenChips(t *testing.T) {
	runes := buildChipRunes(testSplits())
	width := 0
	spaces := 0
	for _, r := range runes {
		width += r.width
		if r.isSpace {
			spaces++
		}
	}
	if width != 3*len("1000m: 04:30")+2*len(chipSeparator) {
		t.Fatalf("unexpected chip width %d", width)
	}
	if spaces != 2*len(chipSeparator) {
		t.Fatalf("expected only separators to be break points, got %d", spaces)
	}
}

func TestWrapChipsKeepsChipsWhole(t *testing.T) {
	out := wrapStyledRunes(buildChipRunes(testSplits()), 14)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 14 {
			t.Fatalf("line wider than 14: %d", w)
		}
	}
}

func TestWrapChipsSingleLineWhenWide(t *testing.T) {
	out := wrapStyledRunes(buildChipRunes(testSplits()), 80)
	if strings.Contains(out, "\n") {
		t.Fatalf("expected one line, got %q", out)
	}
	if w := lipgloss.Width(out); w != 40 {
		t.Fatalf("expected width 40, got %d", w)
	}
}

func TestWrapNoWidth(t *testing.T) {
	runes := buildChipRunes(testSplits())
	if wrapStyledRunes(runes, 0) != renderStyledRunes(runes) {
		t.Fatalf("zero width should not wrap")
	}
}

func TestWrapDropsSeparatorAtLineStart(t *testing.T) {
	out := wrapStyledRunes(buildChipRunes(testSplits()), 13)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasSuffix(line, " ") {
			t.Fatalf("separator left at line edge: %q", out)
		}
	}
}

func TestLayoutChipsStopsPulling(t *testing.T) {
	pulled := 0
	splits := func(yield func(model.Split) bool) {
		for i := 1; i <= 1000; i++ {
			pulled++
			if !yield(model.Split{Marker: i * 1000, Elapsed: time.Duration(i) * 270 * time.Second}) {
				return
			}
		}
	}
	// Two 12-cell chips plus the separator fill a 26-cell row.
	rows, more := layoutChips(splits, 26, 2)
	if !more {
		t.Fatalf("expected remaining splits")
	}
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 2 {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if pulled != 5 {
		t.Fatalf("expected 5 splits pulled, got %d", pulled)
	}
}

func TestLayoutChipsMatchesWrap(t *testing.T) {
	rows, more := layoutChips(slices.Values(testSplits()), 14, 10)
	if more || len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %v more=%v", rows, more)
	}
	wrapped := wrapStyledRunes(buildChipRunes(testSplits()), 14)
	if got := len(strings.Split(wrapped, "\n")); got != len(rows) {
		t.Fatalf("layout has %d rows, wrap has %d lines", len(rows), got)
	}
}
