package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/diag"
	"tally/internal/diagfmt"
	"tally/internal/driver"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] <keys>...",
	Short: "Feed a keystroke script into a fresh calculator",
	Long: `Eval presses each key of the script in order and prints the final display.
Keys are digits, '.', + - * / (x and ÷ also work), 'c' to clear and '=' to evaluate.
Whitespace is ignored, so the script may be split over several arguments.`,
	Example: `  tally eval '12+3*4='
  tally eval --steps --explain 8/4/2=`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	addOutputFlags(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	text := strings.Join(args, " ")
	script, err := driver.ParseScript("<keys>", text)
	if err != nil {
		return reportScriptError(cmd, err, text, opts)
	}

	tr, err := driver.Run(cmd.Context(), script, driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return err
	}
	failed, err := renderTranscript(cmd, tr, opts)
	if err != nil {
		return err
	}
	if failed {
		return errSurfaced
	}
	return nil
}

// reportScriptError prints a keystroke parse failure as a diagnostic.
func reportScriptError(cmd *cobra.Command, err error, text string, opts outputOptions) error {
	var de *diag.Error
	if !errors.As(err, &de) {
		return err
	}
	bag := diag.NewBag(1)
	bag.Add(de.Diagnostic())
	if opts.format == "json" {
		if jerr := diagfmt.JSON(cmd.OutOrStdout(), bag, diagfmt.JSONOpts{Source: "<keys>"}); jerr != nil {
			return jerr
		}
		return errSurfaced
	}
	if perr := diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{Color: opts.color, Source: "<keys>", Keys: text}); perr != nil {
		return perr
	}
	return errSurfaced
}
