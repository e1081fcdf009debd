package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/verte-zerg/pacecalc/internal/calculator"
	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/registry"
	"github.com/verte-zerg/pacecalc/internal/store"
)

func newCalculator(t *testing.T) *calculator.Calculator {
	t.Helper()
	st, err := store.Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	reg, err := registry.New(ctx, st, model.DefaultFormState())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return calculator.New(ctx, reg, 0)
}

func TestWritePlan(t *testing.T) {
	c := newCalculator(t)
	ctx := context.Background()
	c.Edit(ctx, model.FieldPace, "04:30")
	c.Edit(ctx, model.FieldDistance, "3000")
	c.Edit(ctx, model.FieldSplitInterval, "1000")

	var buf bytes.Buffer
	if err := WritePlan(&buf, c, Options{}); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	want := strings.Join([]string{
		"Pace: 04:30 /km",
		"Splits: 1000 m",
		"Distance: 3000 m",
		"Total duration: 13:30",
		"",
		"Marker (m) Elapsed",
		"      1000   04:30",
		"      2000   09:00",
		"      3000   13:30",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWritePlanUndefined(t *testing.T) {
	c := newCalculator(t)
	c.EditLabel(context.Background(), "Race")

	var buf bytes.Buffer
	if err := WritePlan(&buf, c, Options{Width: 120}); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Label: Race") || !strings.Contains(out, "Total duration: —") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Marker") {
		t.Fatalf("no split table expected:\n%s", out)
	}
}

func TestSplitTableHidden(t *testing.T) {
	c := newCalculator(t)
	ctx := context.Background()
	c.Edit(ctx, model.FieldPace, "05:00")
	c.Edit(ctx, model.FieldDistance, "5000")
	c.Edit(ctx, model.FieldSplitInterval, "1000")
	if len(SplitTable(c, 0)) != 6 {
		t.Fatalf("expected header plus 5 rows")
	}
	c.ToggleSplits(ctx)
	if SplitTable(c, 0) != nil {
		t.Fatalf("hidden table should render nothing")
	}
}

func TestWritePlanStreamsLongTables(t *testing.T) {
	c := newCalculator(t)
	ctx := context.Background()
	c.Edit(ctx, model.FieldPace, "04:30")
	c.Edit(ctx, model.FieldSplitInterval, "1")
	c.Edit(ctx, model.FieldDistance, "1000")

	var buf bytes.Buffer
	if err := WritePlan(&buf, c, Options{Width: 200}); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	// Four input lines, a blank line, the header and one row per meter.
	if len(lines) != 4+1+1+1000 {
		t.Fatalf("expected 1006 lines, got %d", len(lines))
	}
	if lines[5] != "Marker (m) Elapsed" {
		t.Fatalf("unexpected header: %q", lines[5])
	}
	if lines[6] != "         1   00:00" {
		t.Fatalf("unexpected first row: %q", lines[6])
	}
	if last := lines[len(lines)-1]; last != "      1000   04:30" {
		t.Fatalf("unexpected last row: %q", last)
	}
}
