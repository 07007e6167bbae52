// Package tui hosts the viewer in the terminal: a bubbletea program that
// turns key presses into parameter-state mutations and re-renders the plot
// grid through the coordinator. All mutation happens inside Update, so the
// engine's single-threaded cooperative model holds by construction.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonxlegasa/nn-viewer/internal/params"
	"github.com/jonxlegasa/nn-viewer/internal/render"
	"github.com/jonxlegasa/nn-viewer/internal/theme"
)

type focus int

const (
	focusSliders focus = iota
	focusSeries
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	dim    lipgloss.Style
	errTxt lipgloss.Style
	graph  lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(th.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(th.Text).Width(18),
		value:  lipgloss.NewStyle().Foreground(th.Text),
		active: lipgloss.NewStyle().Foreground(th.WidgetActive).Bold(true),
		dim:    lipgloss.NewStyle().Foreground(th.Grid),
		errTxt: lipgloss.NewStyle().Foreground(th.Error),
		graph:  lipgloss.NewStyle().Foreground(th.Accent).Padding(1, 0),
	}
}

// Model is the bubbletea model for one viewer session.
type Model struct {
	title   string
	state   *params.State
	coord   *render.Coordinator
	backend *render.TermBackend

	sliders []string
	labels  []string

	focus        focus
	sliderCursor int
	labelCursor  int
	slotCursor   int

	themeName string
	st        styles

	width  int
	height int
	err    error
	note   string // persistent condition, e.g. degenerate ODE
}

// New builds the TUI around an already-wired coordinator. note is an
// optional persistent status line (empty for none).
func New(title string, state *params.State, coord *render.Coordinator, backend *render.TermBackend, themeName, note string) Model {
	m := Model{
		title:     title,
		state:     state,
		coord:     coord,
		backend:   backend,
		sliders:   state.SliderNames(),
		labels:    state.Labels(),
		themeName: theme.Get(themeName).Name,
		st:        newStyles(theme.Get(themeName)),
		width:     100,
		height:    30,
		note:      note,
	}
	m.err = coord.Refresh()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.backend.Resize(msg.Width-30, msg.Height/3)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == focusSliders {
			m.focus = focusSeries
		} else {
			m.focus = focusSliders
		}
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "left", "h":
		if m.focus == focusSliders {
			m.adjustSlider(-1)
		}
		return m, nil
	case "right", "l":
		if m.focus == focusSliders {
			m.adjustSlider(1)
		}
		return m, nil
	case "pgup":
		if m.focus == focusSliders {
			m.adjustSlider(-10)
		}
		return m, nil
	case "pgdown":
		if m.focus == focusSliders {
			m.adjustSlider(10)
		}
		return m, nil
	case " ", "enter":
		if m.focus == focusSeries && m.labelCursor < len(m.labels) {
			m.mutate(func() error {
				return m.state.ToggleVisibility(m.labels[m.labelCursor])
			})
		}
		return m, nil
	case "a":
		m.mutate(m.state.SelectAll)
		return m, nil
	case "n":
		m.mutate(m.state.DeselectAll)
		return m, nil
	case "r":
		m.mutate(m.state.Reset)
		return m, nil
	case "[":
		m.slotCursor = (m.slotCursor + len(m.coord.Slots()) - 1) % len(m.coord.Slots())
		return m, nil
	case "]":
		m.slotCursor = (m.slotCursor + 1) % len(m.coord.Slots())
		return m, nil
	case "t":
		m.cycleTheme()
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case focusSliders:
		m.sliderCursor = clampIndex(m.sliderCursor+delta, len(m.sliders))
	case focusSeries:
		m.labelCursor = clampIndex(m.labelCursor+delta, len(m.labels))
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// adjustSlider nudges the focused slider by steps step widths. The state
// clamps and snaps; only an effective change triggers a refresh.
func (m *Model) adjustSlider(steps int) {
	if m.sliderCursor >= len(m.sliders) {
		return
	}
	name := m.sliders[m.sliderCursor]
	spec, ok := m.state.Spec(name)
	if !ok {
		return
	}
	cur, _ := m.state.Value(name)
	step := spec.Step
	if step <= 0 {
		step = 1
	}
	changed, err := m.state.SetSlider(name, cur+float64(steps)*step)
	if err != nil {
		m.err = err
		return
	}
	if changed {
		m.err = m.coord.Refresh()
	}
}

// mutate runs one state mutation and follows it with exactly one refresh.
func (m *Model) mutate(fn func() error) {
	if err := fn(); err != nil {
		m.err = err
		return
	}
	m.err = m.coord.Refresh()
}

func (m *Model) cycleTheme() {
	names := theme.Names()
	for i, name := range names {
		if name == m.themeName {
			m.themeName = names[(i+1)%len(names)]
			m.st = newStyles(theme.Get(m.themeName))
			return
		}
	}
	if len(names) > 0 {
		m.themeName = names[0]
		m.st = newStyles(theme.Get(m.themeName))
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.st.header.Render(m.title) + "\n")

	slots := m.coord.Slots()
	slot := slots[clampIndex(m.slotCursor, len(slots))]
	b.WriteString(m.renderPlot(slot))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSliders(),
		"    ",
		m.renderSeries(),
		"    ",
		m.renderSlotList(slots),
	))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(m.st.dim.Render("\ntab focus · ←/→ adjust · space toggle · a all · n none · r reset · [/] plot · t theme · q quit"))
	return b.String()
}

func (m Model) renderPlot(slot render.Slot) string {
	status := m.coord.Status(slot.ID)
	if !status.Visible {
		reason := "hidden (no visible series)"
		if status.Err != nil {
			reason = "hidden: " + status.Err.Error()
		}
		return m.st.dim.Render(fmt.Sprintf("[%s] %s", slot.Title, reason)) + "\n"
	}
	block := m.backend.Render(slot)
	if block == "" {
		return m.st.dim.Render(fmt.Sprintf("[%s] no data", slot.Title)) + "\n"
	}
	return m.st.graph.Render(block) + "\n"
}

func (m Model) renderSliders() string {
	var b strings.Builder
	b.WriteString(m.st.label.Render("Parameters") + "\n")
	for i, name := range m.sliders {
		spec, _ := m.state.Spec(name)
		val, _ := m.state.Value(name)
		line := fmt.Sprintf("%-16s %10.0f  [%g..%g]", spec.Label, val, spec.Min, spec.Max)
		if m.focus == focusSliders && i == m.sliderCursor {
			b.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString(m.st.value.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderSeries() string {
	var b strings.Builder
	b.WriteString(m.st.label.Render("Series") + "\n")
	for i, label := range m.labels {
		mark := "[x]"
		if !m.state.Visible(label) {
			mark = "[ ]"
		}
		line := fmt.Sprintf("%s %s", mark, label)
		if m.focus == focusSeries && i == m.labelCursor {
			b.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString(m.st.value.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderSlotList(slots []render.Slot) string {
	var b strings.Builder
	b.WriteString(m.st.label.Render("Plots") + "\n")
	for i, slot := range slots {
		mark := " "
		if !m.coord.Status(slot.ID).Visible {
			mark = "·"
		}
		line := fmt.Sprintf("%s %s", mark, slot.Title)
		if i == clampIndex(m.slotCursor, len(slots)) {
			b.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString(m.st.dim.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	var lines []string
	if m.note != "" {
		lines = append(lines, m.st.errTxt.Render(m.note))
	}
	for _, err := range m.coord.Errors() {
		lines = append(lines, m.st.errTxt.Render(err.Error()))
	}
	if m.err != nil {
		lines = append(lines, m.st.errTxt.Render("observer: "+m.err.Error()))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Run starts the program in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
