package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/config"
)

// cliSession holds what the root pre-run set up for the chosen command.
type cliSession struct {
	cfg      config.Config
	cleanups []func()
}

var session = &cliSession{cfg: config.Default()}

func (s *cliSession) open(cmd *cobra.Command) error {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Resolve(explicit, wd)
	if err != nil {
		return err
	}
	s.cfg = cfg

	cleanupTrace, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	s.cleanups = append(s.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	s.cleanups = append(s.cleanups, cleanupProf)
	return nil
}

// close runs cleanups in reverse order. It is safe to call more than once.
func (s *cliSession) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}
