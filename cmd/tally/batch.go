package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tally/internal/driver"
	"tally/internal/observ"
	"tally/internal/ui"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <file>...",
	Short: "Run keystroke scripts and tapes in parallel",
	Long: `Batch runs every file on its own calculator and prints one line per file
in input order. Files are text scripts ('#' starts a comment, a line break
evaluates) or tapes recorded with 'tally tape record'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "max parallel workers (0 = [batch].jobs from tally.toml)")
	batchCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	batchCmd.Flags().String("ui", "", "progress UI (auto|on|off, default [ui].mode from tally.toml)")
}

type batchLine struct {
	File    string   `json:"file"`
	Display string   `json:"display"`
	Result  *float64 `json:"result,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs == 0 {
		jobs = session.cfg.Batch.Jobs
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	if uiFlag == "" {
		uiFlag = session.cfg.UI.Mode
	}
	ui, err := parseAutoSwitch("ui", uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{MaxDiagnostics: maxDiagnostics}
	timer := observ.NewTimer()
	idx := timer.Begin("batch")

	var results []driver.BatchResult
	if format == "pretty" && ui.on(os.Stdout) {
		results, err = runBatchWithUI(cmd.Context(), args, jobs, opts)
	} else {
		results, err = driver.RunBatch(cmd.Context(), args, jobs, opts)
	}
	timer.End(idx, fmt.Sprintf("%d files, %d jobs", len(args), jobs))
	if err != nil {
		return err
	}

	lines := make([]batchLine, len(results))
	failed := false
	for i, res := range results {
		lines[i] = summarize(res)
		if lines[i].Error != "" {
			failed = true
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lines); err != nil {
			return err
		}
	} else {
		for _, l := range lines {
			if l.Error != "" {
				fmt.Fprintf(out, "%s: %s (%s)\n", l.File, session.cfg.Display.ErrorMessage, l.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %s\n", l.File, l.Display)
		}
	}

	if showTimings {
		report := timer.Report()
		for _, res := range results {
			report = report.Merge(res.Path, res.Transcript.Timings)
		}
		fmt.Fprint(cmd.ErrOrStderr(), report.String())
	}
	if failed {
		return errSurfaced
	}
	return nil
}

func summarize(res driver.BatchResult) batchLine {
	l := batchLine{File: res.Path}
	if res.Err != nil {
		l.Error = res.Err.Error()
		return l
	}
	l.Display = res.Transcript.Final.Text
	if last, ok := res.Transcript.Last(); ok {
		if last.Err != nil {
			l.Error = last.Err.Error()
		} else {
			v := last.Result.Value
			l.Result = &v
		}
	}
	return l
}

type batchOutcome struct {
	results []driver.BatchResult
	err     error
}

func runBatchWithUI(ctx context.Context, files []string, jobs int, opts driver.Options) ([]driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.RunBatch(ctx, files, jobs, o)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("tally batch (%d files)", len(files)), files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so workers never block on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
