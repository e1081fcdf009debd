// Package tui provides the Bubble Tea pace calculator interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pacecalc/internal/calculator"
	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/pace"
	"github.com/verte-zerg/pacecalc/internal/registry"
)

const title = "Pace calculator"

const (
	// Title and footer.
	screenChromeLines = 2
	// Border, label, fields, total and error lines of a panel.
	panelChromeLines = 6
	// Split lines per panel before the terminal size is known.
	defaultSplitRows = 3
)

// Input slots of a panel, in focus order.
const (
	slotPace = iota
	slotSplits
	slotDistance
	slotLabel
	slotCount
)

var slotFields = [...]model.Field{
	slotPace:     model.FieldPace,
	slotSplits:   model.FieldSplitInterval,
	slotDistance: model.FieldDistance,
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#C89A3A"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	chipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	deleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

const (
	toggleOnText  = "[x] splits"
	toggleOffText = "[ ] splits"
)

type keyMap struct {
	Quit   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Add    key.Binding
	Delete key.Binding
	Toggle key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Add:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add")),
		Delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Toggle: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "toggle splits")),
	}
}

type panel struct {
	calc   *calculator.Calculator
	inputs [slotCount]textinput.Model
}

// Model implements the Bubble Tea calculator UI.
type Model struct {
	ctx    context.Context
	reg    *registry.Registry
	config model.Config
	keys   keyMap

	panels []*panel
	focus  int

	width  int
	height int
}

// NewModel builds one panel per live instance of reg.
func NewModel(ctx context.Context, reg *registry.Registry, cfg model.Config) *Model {
	m := &Model{
		ctx:    ctx,
		reg:    reg,
		config: cfg,
		keys:   defaultKeyMap(),
	}
	for _, id := range reg.List() {
		m.panels = append(m.panels, m.newPanel(id))
	}
	m.setFocus(0)
	return m
}

func (m *Model) newPanel(id model.InstanceID) *panel {
	calc := calculator.New(m.ctx, m.reg, id)
	if m.config.Placeholder != "" {
		calc.SetPlaceholder(m.config.Placeholder)
	}
	p := &panel{calc: calc}
	p.inputs[slotPace] = newFieldInput("Pace (mm:ss/km): ", "04:30", 6)
	p.inputs[slotSplits] = newFieldInput("Splits (m): ", "1000", 7)
	p.inputs[slotDistance] = newFieldInput("Distance (m): ", "10000", 7)
	p.inputs[slotLabel] = newFieldInput("Label: ", "optional", 16)

	state := calc.State()
	if state.Pace > 0 {
		p.inputs[slotPace].SetValue(pace.FormatClock(state.Pace))
	}
	if state.SplitInterval > 0 {
		p.inputs[slotSplits].SetValue(fmt.Sprint(state.SplitInterval))
	}
	if state.Distance > 0 {
		p.inputs[slotDistance].SetValue(fmt.Sprint(state.Distance))
	}
	p.inputs[slotLabel].SetValue(state.Label)
	return p
}

func newFieldInput(prompt, placeholder string, width int) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Width = width
	input.PromptStyle = labelStyle
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, m.keys.Add):
			return m, m.addInstance()
		case key.Matches(msg, m.keys.Delete):
			return m, m.removeFocused()
		case key.Matches(msg, m.keys.Toggle):
			m.focusedPanel().calc.ToggleSplits(m.ctx)
			return m, nil
		}
		return m, m.updateInput(msg)
	}
	return m, m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	p := m.focusedPanel()
	if p == nil {
		return nil
	}
	slot := m.focus % slotCount
	before := p.inputs[slot].Value()
	var cmd tea.Cmd
	p.inputs[slot], cmd = p.inputs[slot].Update(msg)
	after := p.inputs[slot].Value()
	if after == before {
		return cmd
	}
	if slot == slotLabel {
		p.calc.EditLabel(m.ctx, after)
		return cmd
	}
	field := slotFields[slot]
	p.calc.Edit(m.ctx, field, after)
	p.inputs[slot].PromptStyle = promptStyleFor(p.calc.Field(field).Kind)
	return cmd
}

func promptStyleFor(kind pace.Kind) lipgloss.Style {
	if kind == pace.Invalid {
		return errorStyle
	}
	return labelStyle
}

func (m *Model) focusedPanel() *panel {
	if len(m.panels) == 0 {
		return nil
	}
	return m.panels[m.focus/slotCount]
}

func (m *Model) setFocus(idx int) tea.Cmd {
	count := len(m.panels) * slotCount
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.focus = idx
	var cmd tea.Cmd
	for i, p := range m.panels {
		for slot := range p.inputs {
			if i*slotCount+slot == idx {
				cmd = p.inputs[slot].Focus()
			} else {
				p.inputs[slot].Blur()
			}
		}
	}
	return cmd
}

func (m *Model) addInstance() tea.Cmd {
	id, err := m.reg.Add(m.ctx)
	if err != nil {
		logErrf("failed to add instance: %v\n", err)
		return nil
	}
	m.panels = append(m.panels, m.newPanel(id))
	return m.setFocus((len(m.panels) - 1) * slotCount)
}

func (m *Model) removeFocused() tea.Cmd {
	idx := m.focus / slotCount
	p := m.panels[idx]
	if !m.reg.Removable(p.calc.ID()) {
		return nil
	}
	if err := m.reg.Remove(m.ctx, p.calc.ID()); err != nil {
		logErrf("failed to remove instance %d: %v\n", p.calc.ID(), err)
		return nil
	}
	m.panels = append(m.panels[:idx], m.panels[idx+1:]...)
	return m.setFocus((idx-1)*slotCount + m.focus%slotCount)
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	parts := []string{titleStyle.Render(title)}
	for i, p := range m.panels {
		parts = append(parts, m.renderPanel(p, i == m.focus/slotCount, width))
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m *Model) renderPanel(p *panel, focused bool, width int) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	contentWidth := width - style.GetHorizontalFrameSize()
	if contentWidth < 1 {
		contentWidth = 1
	}

	header := p.inputs[slotLabel].View()
	if m.reg.Removable(p.calc.ID()) {
		header += "  " + deleteStyle.Render("✕")
	}
	fields := lipgloss.JoinHorizontal(lipgloss.Top,
		p.inputs[slotPace].View(), "  ",
		p.inputs[slotSplits].View(), "  ",
		p.inputs[slotDistance].View(),
	)
	total := labelStyle.Render("Total duration: ") + valueStyle.Render(p.calc.TotalText())

	lines := []string{header, fields, total}
	if msg := p.calc.Err(); msg != "" {
		lines = append(lines, errorStyle.Render(msg))
	}
	lines = append(lines, renderSplits(p.calc, contentWidth, m.splitRows()))
	return style.Width(contentWidth + style.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}

// splitRows is the number of screen lines each panel may spend on split
// chips.
func (m *Model) splitRows() int {
	if m.height <= 0 || len(m.panels) == 0 {
		return defaultSplitRows
	}
	perPanel := (m.height - screenChromeLines) / len(m.panels)
	return max(perPanel-panelChromeLines, 1)
}

func renderSplits(calc *calculator.Calculator, width, maxRows int) string {
	toggle := toggleOffText
	if calc.State().ShowSplits {
		toggle = toggleOnText
	}
	prefix := labelStyle.Render(toggle) + "  "
	indent := lipgloss.Width(prefix)
	rowWidth := width - indent

	rows, more := layoutChips(calc.VisibleSplits(), rowWidth, maxRows)
	if more && len(rows) > 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 && !more {
		return labelStyle.Render(toggle)
	}

	var lines []string
	shown := 0
	for _, row := range rows {
		shown += len(row)
		wrapped := wrapStyledRunes(buildChipRunes(row), rowWidth)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	if more {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("+%d more", calc.VisibleSplitCount()-shown)))
	}
	pad := strings.Repeat(" ", indent)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	bindings := []key.Binding{m.keys.Next, m.keys.Add}
	if p := m.focusedPanel(); p != nil && m.reg.Removable(p.calc.ID()) {
		bindings = append(bindings, m.keys.Delete)
	}
	bindings = append(bindings, m.keys.Toggle, m.keys.Quit)
	segments := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, h.Key+": "+h.Desc)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
