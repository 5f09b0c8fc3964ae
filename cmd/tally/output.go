package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/diag"
	"tally/internal/diagfmt"
	"tally/internal/driver"
	"tally/internal/eval"
	"tally/internal/keys"
	"tally/internal/observ"
	"tally/internal/token"
)

type outputOptions struct {
	format      string
	steps       bool
	explain     bool
	diagnostics bool
	timings     bool
	color       bool
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var opts outputOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}
	if opts.steps, err = cmd.Flags().GetBool("steps"); err != nil {
		return opts, fmt.Errorf("failed to get steps flag: %w", err)
	}
	if opts.explain, err = cmd.Flags().GetBool("explain"); err != nil {
		return opts, fmt.Errorf("failed to get explain flag: %w", err)
	}
	if opts.diagnostics, err = cmd.Flags().GetBool("diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.color, err = useColor(cmd, os.Stderr); err != nil {
		return opts, err
	}
	return opts, nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("steps", false, "print the display after every keystroke")
	cmd.Flags().Bool("explain", false, "show the sequence after the high-precedence pass")
	cmd.Flags().Bool("diagnostics", false, "also list ignored keys and refused operators")
}

type framePayload struct {
	Key     string `json:"key"`
	Handled bool   `json:"handled"`
	Display string `json:"display,omitempty"`
	Error   string `json:"error,omitempty"`
}

type explainPayload struct {
	Input   string `json:"input"`
	Reduced string `json:"reduced"`
	Result  string `json:"result"`
}

type transcriptPayload struct {
	Script      string                     `json:"script"`
	Display     string                     `json:"display"`
	Result      *float64                   `json:"result,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Steps       []framePayload             `json:"steps,omitempty"`
	Explain     *explainPayload            `json:"explain,omitempty"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
	Timings     *observ.Report             `json:"timings,omitempty"`
}

// renderTranscript prints tr to stdout (and diagnostics to stderr for the
// pretty format). It reports whether the last evaluation surfaced an error.
func renderTranscript(cmd *cobra.Command, tr driver.Transcript, opts outputOptions) (bool, error) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	failed := tr.Failed()

	if opts.format == "json" {
		return failed, renderTranscriptJSON(out, tr, opts)
	}

	if opts.steps {
		for _, f := range tr.Frames {
			switch {
			case !f.Rendered:
				fmt.Fprintf(out, "%-3s (ignored)\n", f.Key)
			case f.Update.Err != nil:
				fmt.Fprintf(out, "%-3s error: %s\n", f.Key, session.cfg.Display.ErrorMessage)
			default:
				fmt.Fprintf(out, "%-3s %s\n", f.Key, f.Update.Text)
			}
		}
	} else if failed {
		fmt.Fprintln(out, session.cfg.Display.ErrorMessage)
	} else {
		fmt.Fprintln(out, tr.Final.Text)
	}

	if opts.explain {
		if ex := explainLast(tr); ex != nil {
			fmt.Fprintf(out, "input:   %s\nreduced: %s\nresult:  %s\n", ex.Input, ex.Reduced, ex.Result)
		}
	}

	minSev := diag.SevError
	if opts.diagnostics {
		minSev = diag.SevInfo
	}
	tr.Bag.Sort()
	if err := diagfmt.Pretty(errOut, tr.Bag, diagfmt.PrettyOpts{
		Color:     opts.color,
		Source:    tr.Name,
		MinSev:    minSev,
		ShowNotes: true,
		Keys:      scriptText(tr),
	}); err != nil {
		return failed, err
	}

	if opts.timings {
		fmt.Fprint(errOut, tr.Timings.String())
	}
	if failed {
		dumpTraceRing(cmd.Context(), errOut)
	}
	return failed, nil
}

func renderTranscriptJSON(out io.Writer, tr driver.Transcript, opts outputOptions) error {
	payload := transcriptPayload{Script: tr.Name, Display: tr.Final.Text}
	if last, ok := tr.Last(); ok {
		if last.Err != nil {
			payload.Error = last.Err.Error()
		} else {
			v := last.Result.Value
			payload.Result = &v
		}
	}
	if opts.steps {
		payload.Steps = make([]framePayload, len(tr.Frames))
		for i, f := range tr.Frames {
			fp := framePayload{Key: f.Key.String(), Handled: f.Handled}
			if f.Rendered {
				fp.Display = f.Update.Text
				if f.Update.Err != nil {
					fp.Error = f.Update.Err.Error()
				}
			}
			payload.Steps[i] = fp
		}
	}
	if opts.explain {
		payload.Explain = explainLast(tr)
	}
	minSev := diag.SevError
	if opts.diagnostics {
		minSev = diag.SevInfo
	}
	tr.Bag.Sort()
	diags := diagfmt.BuildDiagnosticsOutput(tr.Bag, diagfmt.JSONOpts{Source: tr.Name, IncludeNotes: true, MinSev: minSev})
	if diags.Count > 0 {
		payload.Diagnostics = &diags
	}
	if opts.timings {
		payload.Timings = &tr.Timings
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// explainLast re-runs the two passes over the last evaluated sequence.
func explainLast(tr driver.Transcript) *explainPayload {
	last, ok := tr.Last()
	if !ok || len(last.Input) == 0 {
		return nil
	}
	steps, err := eval.Explain(last.Input)
	if err != nil {
		// a trailing operator never reaches the passes
		return &explainPayload{Input: token.Join(last.Input), Reduced: "-", Result: err.Error()}
	}
	return &explainPayload{
		Input:   token.Join(steps.Input),
		Reduced: token.Join(steps.Reduced),
		Result:  token.FormatNumber(steps.Result),
	}
}

// scriptText renders the pressed keys one rune per key, so diagnostic
// positions index straight into it.
func scriptText(tr driver.Transcript) string {
	ks := make([]keys.Key, len(tr.Frames))
	for i, f := range tr.Frames {
		ks[i] = f.Key
	}
	return keys.Format(ks)
}
