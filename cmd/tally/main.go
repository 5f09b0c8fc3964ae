package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "Keystroke-driven four-function calculator",
	Long:          `Tally feeds keystrokes into a calculator session and evaluates them with * and / binding tighter than + and -`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return session.open(cmd)
	},
}

// errSurfaced is returned by commands that already printed a surfaced
// calculator error; main only sets the exit status.
var errSurfaced = errors.New("surfaced error")

// init registers subcommands and persistent flags.
func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(tapeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to tally.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per script")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|session|key|pass)")
	rootCmd.PersistentFlags().String("trace-mode", "", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 0, "events kept by the ring tracer")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
}

// main executes the root command. Any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	session.close()
	if err != nil {
		if !errors.Is(err, errSurfaced) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
