// Package ui holds the Bubble Tea front ends: the interactive calculator and
// the batch progress view.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tally/internal/calc"
	"tally/internal/keys"
)

// CalculatorOptions configures the interactive calculator.
type CalculatorOptions struct {
	Width        int    // display cells
	ErrorMessage string // popup headline for surfaced errors
}

var keypad = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
	{"C"},
}

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	pressedStyle  = buttonStyle.Reverse(true)
	operatorStyle = buttonStyle.Foreground(lipgloss.Color("3"))
	popupStyle    = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("1")).
			Padding(0, 2)
	popupTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	popupDetailStyle = lipgloss.NewStyle().Faint(true)
)

// screen receives display updates from the Calculator. It is written only
// from inside CalculatorModel.Update, which Bubble Tea runs on one goroutine.
type screen struct {
	text string
	err  error
}

func (s *screen) Render(u calc.Update) {
	s.text = u.Text
	s.err = u.Err
}

// CalculatorModel is the Bubble Tea model for `tally tui`.
type CalculatorModel struct {
	calc     *calc.Calculator
	screen   *screen
	keys     keyMap
	help     help.Model
	opts     CalculatorOptions
	popup    bool
	last     string
	quitting bool
}

// NewCalculatorModel builds a model around a fresh Calculator. copts are
// applied before the model installs its own display.
func NewCalculatorModel(opts CalculatorOptions, copts ...calc.Option) *CalculatorModel {
	if opts.Width <= 0 {
		opts.Width = 24
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = "Something went wrong"
	}
	s := &screen{}
	copts = append(copts, calc.WithDisplay(s))
	return &CalculatorModel{
		calc:   calc.New(copts...),
		screen: s,
		keys:   defaultKeyMap(),
		help:   help.New(),
		opts:   opts,
	}
}

func (m *CalculatorModel) Init() tea.Cmd { return nil }

func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *CalculatorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	// any key closes the error popup and is consumed
	if m.popup {
		m.popup = false
		m.screen.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Clear):
		m.last = "C"
		m.calc.Clear()
	case key.Matches(msg, m.keys.Evaluate):
		m.last = "="
		if _, err := m.calc.RequestEvaluate(); err != nil {
			m.popup = true
		}
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			k, ok := keys.Parse(r)
			if !ok {
				continue
			}
			m.last = k.String()
			if _, err := m.calc.Press(k); err != nil {
				m.popup = true
			}
		}
	}
	return m, nil
}

// Display returns the text currently shown, right-aligned to the display width.
func (m *CalculatorModel) Display() string {
	return fitDisplay(m.screen.text, m.opts.Width)
}

// fitDisplay right-aligns text in width cells, dropping leading cells behind
// an ellipsis when it does not fit.
func fitDisplay(text string, width int) string {
	if w := runewidth.StringWidth(text); w > width {
		text = runewidth.TruncateLeft(text, w-width+1, "…")
	}
	return runewidth.FillLeft(text, width)
}

func (m *CalculatorModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(displayStyle.Render(m.Display()))
	b.WriteString("\n")
	for _, row := range keypad {
		cells := make([]string, len(row))
		for i, label := range row {
			cells[i] = m.button(label)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	if m.popup {
		b.WriteString(m.popupView())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *CalculatorModel) button(label string) string {
	switch {
	case label == m.last:
		return pressedStyle.Render(label)
	case strings.ContainsAny(label, "+-*/="):
		return operatorStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

func (m *CalculatorModel) popupView() string {
	lines := []string{popupTitleStyle.Render(m.opts.ErrorMessage)}
	if m.screen.err != nil {
		lines = append(lines, popupDetailStyle.Render(m.screen.err.Error()))
	}
	lines = append(lines, popupDetailStyle.Render("press any key"))
	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
