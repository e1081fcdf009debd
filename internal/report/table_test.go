package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Label", "Marker (m)", "Elapsed"}
	rows := [][]string{
		{"easy", "1000", "05:30"},
		{"tempo run", "21097", "84:23"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Label     Marker (m) Elapsed" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "easy            1000   05:30" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "tempo run      21097   84:23" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestColumnizeSplitsIntoGroups(t *testing.T) {
	lines := []string{
		"Marker (m) Elapsed",
		"      1000   04:30",
		"      2000   09:00",
		"      3000   13:30",
		"      4000   18:00",
	}
	out := columnize(lines, 40, "   ")
	want := []string{
		"Marker (m) Elapsed   Marker (m) Elapsed",
		"      1000   04:30         3000   13:30",
		"      2000   09:00         4000   18:00",
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(out), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestColumnizeNarrowKeepsSingleColumn(t *testing.T) {
	lines := []string{"Marker (m) Elapsed", "      1000   04:30", "      2000   09:00"}
	out := columnize(lines, 20, "   ")
	if len(out) != len(lines) {
		t.Fatalf("expected unchanged table, got %q", out)
	}
}
