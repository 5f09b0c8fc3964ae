package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/driver"
	"tally/internal/keys"
	"tally/internal/tape"
)

var tapeCmd = &cobra.Command{
	Use:   "tape",
	Short: "Record and replay keystroke tapes",
}

var tapeRecordCmd = &cobra.Command{
	Use:   "record -o <file.tape> <keys>...",
	Short: "Save a keystroke script as a tape",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTapeRecord,
}

var tapePlayCmd = &cobra.Command{
	Use:   "play [flags] <file.tape>",
	Short: "Replay a tape on a fresh calculator",
	Args:  cobra.ExactArgs(1),
	RunE:  runTapePlay,
}

func init() {
	tapeRecordCmd.Flags().StringP("output", "o", "", "tape file to write")
	tapeRecordCmd.Flags().String("label", "", "label stored in the tape")
	_ = tapeRecordCmd.MarkFlagRequired("output")

	addOutputFlags(tapePlayCmd)

	tapeCmd.AddCommand(tapeRecordCmd)
	tapeCmd.AddCommand(tapePlayCmd)
}

func runTapeRecord(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	label, err := cmd.Flags().GetString("label")
	if err != nil {
		return fmt.Errorf("failed to get label flag: %w", err)
	}
	if !strings.HasSuffix(path, tape.Ext) {
		path += tape.Ext
	}

	ks, err := keys.ParseScript(strings.Join(args, " "))
	if err != nil {
		return err
	}
	tp, err := tape.New(label, ks)
	if err != nil {
		return err
	}
	if err := tape.WriteFile(path, tp); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %d keys to %s\n", len(ks), path)
	return nil
}

func runTapePlay(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	tp, err := tape.ReadFile(args[0])
	if err != nil {
		return err
	}
	ks, err := tp.KeyList()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	name := tp.Label
	if name == "" {
		name = args[0]
	}

	tr, err := driver.Run(cmd.Context(), driver.Script{Name: name, Keys: ks}, driver.Options{MaxDiagnostics: maxDiagnostics})
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
