package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/pacecalc/internal/calculator"
	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/pace"
)

// Options controls plan output.
type Options struct {
	// Width is the terminal width used to place split rows side by side.
	// Zero keeps a single column.
	Width int
}

// WritePlan prints the inputs, total duration and split table of c.
func WritePlan(w io.Writer, c *calculator.Calculator, opts Options) error {
	state := c.State()
	lines := make([]string, 0, 8)
	if state.Label != "" {
		lines = append(lines, "Label: "+state.Label)
	}
	lines = append(lines,
		"Pace: "+valueOrPlaceholder(state.Pace > 0, pace.FormatClock(state.Pace)+" /km"),
		"Splits: "+valueOrPlaceholder(state.SplitInterval > 0, strconv.Itoa(state.SplitInterval)+" m"),
		"Distance: "+valueOrPlaceholder(state.Distance > 0, strconv.Itoa(state.Distance)+" m"),
		"Total duration: "+c.TotalText(),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return writeSplitTable(w, c, opts.Width)
}

// maxColumnizedRows bounds the rows buffered for side-by-side layout.
// Longer tables are streamed in a single column.
const maxColumnizedRows = 500

var (
	splitHeaders = []string{"Marker (m)", "Elapsed"}
	splitAlign   = map[int]bool{0: true, 1: true}
)

func writeSplitTable(w io.Writer, c *calculator.Calculator, width int) error {
	count := c.VisibleSplitCount()
	if count == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if count <= maxColumnizedRows {
		for _, line := range SplitTable(c, width) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	bw := bufio.NewWriter(w)
	widths := splitColumnWidths(c, count)
	if _, err := fmt.Fprintln(bw, formatRow(splitHeaders, widths, splitAlign)); err != nil {
		return err
	}
	for s := range c.VisibleSplits() {
		if _, err := fmt.Fprintln(bw, formatRow(splitCells(s), widths, splitAlign)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// splitColumnWidths sizes the columns from the last row, which has the
// widest marker and elapsed time.
func splitColumnWidths(c *calculator.Calculator, count int) []int {
	state := c.State()
	last := count * state.SplitInterval
	elapsed, _ := pace.Total(state.Pace, last)
	cells := splitCells(model.Split{Marker: last, Elapsed: elapsed})
	widths := make([]int, len(splitHeaders))
	for i, header := range splitHeaders {
		widths[i] = max(displayWidth(header), displayWidth(cells[i]))
	}
	return widths
}

func splitCells(s model.Split) []string {
	return []string{strconv.Itoa(s.Marker), pace.FormatClock(s.Elapsed)}
}

// SplitTable renders the visible split rows as an aligned table. It returns
// nil when there is nothing to show. All rows are held in memory, so
// WritePlan only uses it for short tables.
func SplitTable(c *calculator.Calculator, width int) []string {
	var rows [][]string
	for s := range c.VisibleSplits() {
		rows = append(rows, splitCells(s))
	}
	if len(rows) == 0 {
		return nil
	}
	lines := formatTable(splitHeaders, rows, splitAlign)
	return columnize(lines, width, "   ")
}

func valueOrPlaceholder(ok bool, value string) string {
	if !ok {
		return pace.Placeholder
	}
	return value
}
