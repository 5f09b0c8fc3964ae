package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tally/internal/config"
	"tally/internal/trace"
)

// setupTracing merges trace flags over the [trace] table and attaches the
// tracer to the command context. Flags win when set.
func setupTracing(cmd *cobra.Command, tc config.TraceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	if flags.Changed("trace") {
		tc.Output, _ = flags.GetString("trace")
	}
	if flags.Changed("trace-level") {
		tc.Level, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace-mode") {
		tc.Mode, _ = flags.GetString("trace-mode")
	}
	if flags.Changed("trace-format") {
		tc.Format, _ = flags.GetString("trace-format")
	}
	if flags.Changed("trace-ring-size") {
		tc.RingSize, _ = flags.GetInt("trace-ring-size")
	}

	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace without a level means "trace everything".
	if level == trace.LevelOff && tc.Output != "" && !flags.Changed("trace-level") {
		level = trace.LevelPass
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if level == trace.LevelOff {
		setContext(cmd, trace.NewContext(ctx, nil))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(tc.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(tc.Format)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		Path:     tc.Output,
		RingSize: tc.RingSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	setContext(cmd, trace.NewContext(ctx, tracer))

	cleanup := func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
}

// dumpTraceRing writes the events the tracer kept in memory, if any, so a
// failed evaluation can be inspected after the fact.
func dumpTraceRing(ctx context.Context, w io.Writer) {
	tracer := trace.FromContext(ctx)
	if len(tracer.Recent()) == 0 {
		return
	}
	fmt.Fprintln(w, "trace (most recent events):")
	if err := tracer.WriteRecent(w); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
