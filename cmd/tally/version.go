package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tally/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Message   string `json:"message,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tally build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		p := versionPayload{
			Tool:      "tally",
			Version:   strings.TrimSpace(version.Version),
			Commit:    strings.TrimSpace(version.GitCommit),
			Message:   strings.TrimSpace(version.GitMessage),
			BuildDate: strings.TrimSpace(version.BuildDate),
		}
		if p.Version == "" {
			p.Version = "dev"
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		case "pretty":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}

		colored, err := useColor(cmd, stdoutFile(cmd))
		if err != nil {
			return err
		}
		v := p.Version
		if colored {
			color.NoColor = false
			v = version.Colored(v)
		}
		fmt.Fprintf(out, "tally %s\n", v)
		if p.Commit != "" {
			fmt.Fprintf(out, "commit: %s %s\n", p.Commit, p.Message)
		}
		if p.BuildDate != "" {
			fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
