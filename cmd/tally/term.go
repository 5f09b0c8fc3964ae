package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// autoSwitch is an auto|on|off setting. Auto follows whether the output
// stream is a terminal.
type autoSwitch struct {
	forced bool
	value  bool
}

func parseAutoSwitch(flag, value string) (autoSwitch, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return autoSwitch{}, nil
	case "on":
		return autoSwitch{forced: true, value: true}, nil
	case "off":
		return autoSwitch{forced: true}, nil
	}
	return autoSwitch{}, fmt.Errorf("invalid --%s %q (expected auto|on|off)", flag, value)
}

// on resolves the switch for output written to f.
func (s autoSwitch) on(f *os.File) bool {
	if s.forced {
		return s.value
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// stdoutFile returns the command's stdout when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	sw, err := parseAutoSwitch("color", value)
	if err != nil {
		return false, err
	}
	return sw.on(f), nil
}
