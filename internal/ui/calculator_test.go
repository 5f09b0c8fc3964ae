package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/calc"
	"tally/internal/diag"
)

func typeKeys(t *testing.T, m *CalculatorModel, s string) {
	t.Helper()
	for _, r := range s {
		var msg tea.KeyMsg
		switch r {
		case '\n':
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case '\x1b':
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		_, cmd := m.Update(msg)
		require.Nil(t, cmd, "key %q should not quit", r)
	}
}

func TestCalculatorEvaluates(t *testing.T) {
	m := NewCalculatorModel(CalculatorOptions{Width: 8})
	typeKeys(t, m, "12+3×4=")
	assert.Equal(t, "      24", m.Display())
	assert.False(t, m.popup)

	typeKeys(t, m, "+1\n")
	assert.Equal(t, "25", strings.TrimSpace(m.Display()))
}

func TestCalculatorClear(t *testing.T) {
	m := NewCalculatorModel(CalculatorOptions{})
	typeKeys(t, m, "9/3")
	typeKeys(t, m, "\x1b")
	assert.Equal(t, "", strings.TrimSpace(m.Display()))

	typeKeys(t, m, "7c")
	assert.Equal(t, "", strings.TrimSpace(m.Display()))
}

func TestCalculatorErrorPopup(t *testing.T) {
	m := NewCalculatorModel(CalculatorOptions{ErrorMessage: "Nope"})
	typeKeys(t, m, "6/0=")
	require.True(t, m.popup)
	assert.ErrorIs(t, m.screen.err, diag.ErrNonFiniteResult)
	assert.Contains(t, m.View(), "Nope")

	// the dismissing key is consumed
	typeKeys(t, m, "5")
	assert.False(t, m.popup)
	assert.Equal(t, "", strings.TrimSpace(m.Display()))
	assert.NotContains(t, m.View(), "Nope")

	typeKeys(t, m, "5+=")
	require.True(t, m.popup)
	typeKeys(t, m, "x")
	assert.False(t, m.popup)
}

func TestCalculatorQuit(t *testing.T) {
	m := NewCalculatorModel(CalculatorOptions{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m = NewCalculatorModel(CalculatorOptions{})
	typeKeys(t, m, "1+=")
	require.True(t, m.popup)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.View())
}

func TestCalculatorUsesReporter(t *testing.T) {
	bag := diag.NewBag(10)
	m := NewCalculatorModel(CalculatorOptions{}, calc.WithReporter(diag.BagReporter{Bag: bag}))
	typeKeys(t, m, "+1..")
	assert.Equal(t, 2, bag.Len())
	assert.Equal(t, "1.", strings.TrimSpace(m.Display()))
}

func TestFitDisplay(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"", 4, "    "},
		{"12", 4, "  12"},
		{"1234", 4, "1234"},
		{"123456", 4, "…456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fitDisplay(tt.text, tt.width), "fitDisplay(%q, %d)", tt.text, tt.width)
	}
}

func TestKeyMapBindsEachKeyOnce(t *testing.T) {
	seen := map[string]string{}
	for _, group := range defaultKeyMap().FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				if prev, ok := seen[k]; ok {
					t.Errorf("key %q bound to both %q and %q", k, prev, b.Help().Desc)
				}
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestCalculatorXMultipliesWithoutPopup(t *testing.T) {
	m := NewCalculatorModel(CalculatorOptions{Width: 8})
	typeKeys(t, m, "6x7=")
	assert.False(t, m.popup)
	assert.Equal(t, "42", strings.TrimSpace(m.Display()))
}
