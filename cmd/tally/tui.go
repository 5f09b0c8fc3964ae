package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tally/internal/calc"
	"tally/internal/diag"
	"tally/internal/trace"
	"tally/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive calculator in the terminal",
	Long: `Tui opens a keypad calculator. Type digits, '.', + - * /, 'c' or esc to clear,
'=' or enter to evaluate, q to quit. An error popup closes on any key.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	bag := diag.NewBag(1000)
	model := ui.NewCalculatorModel(
		ui.CalculatorOptions{
			Width:        session.cfg.Display.Width,
			ErrorMessage: session.cfg.Display.ErrorMessage,
		},
		calc.WithTracer(trace.FromContext(ctx)),
		calc.WithReporter(diag.BagReporter{Bag: bag}),
	)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
