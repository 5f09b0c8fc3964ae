package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default so tests do not leak
// values into each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg := filepath.Join(t.TempDir(), "tally.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[display]\nerror_message = \"Oops\"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfg, "--color", "off"}, args...))
	err := rootCmd.Execute()
	session.close()
	return stdout.String(), stderr.String(), err
}

func TestEvalPrintsResult(t *testing.T) {
	out, _, err := execute(t, "eval", "12+3*4=")
	require.NoError(t, err)
	assert.Equal(t, "24\n", out)
}

func TestEvalSurfacedError(t *testing.T) {
	out, stderr, err := execute(t, "eval", "6/0=")
	assert.True(t, errors.Is(err, errSurfaced))
	assert.Equal(t, "Oops\n", out)
	assert.Contains(t, stderr, "EVL3001")
}

func TestEvalStepsAndExplain(t *testing.T) {
	out, _, err := execute(t, "eval", "--steps", "--explain", "+", "8/4/2=")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 9)
	assert.Equal(t, "+   (ignored)", lines[0])
	assert.Equal(t, "=   1", lines[6])
	assert.Contains(t, out, "input:   8 / 4 / 2")
	assert.Contains(t, out, "reduced: 1")
}

func TestEvalJSON(t *testing.T) {
	out, _, err := execute(t, "eval", "--format", "json", "--diagnostics", "1..5*2=")
	require.NoError(t, err)

	var payload transcriptPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "3", payload.Display)
	require.NotNil(t, payload.Result)
	assert.Equal(t, 3.0, *payload.Result)
	require.NotNil(t, payload.Diagnostics)
	assert.Equal(t, "KEY1002", payload.Diagnostics.Diagnostics[0].Code)
}

func TestEvalBadKey(t *testing.T) {
	_, stderr, err := execute(t, "eval", "1+a")
	assert.True(t, errors.Is(err, errSurfaced))
	assert.Contains(t, stderr, "KEY1001")
}

func TestTapeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum")
	out, _, err := execute(t, "tape", "record", "-o", path, "--label", "sum", "2+2=")
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 4 keys")

	out, _, err = execute(t, "tape", "play", path+".tape")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestBatchKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.calc")
	b := filepath.Join(dir, "b.calc")
	require.NoError(t, os.WriteFile(a, []byte("# sum\n1+1\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("1+\n"), 0o644))

	out, _, err := execute(t, "batch", "--ui", "off", "--jobs", "2", a, b)
	assert.True(t, errors.Is(err, errSurfaced))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, a+": 2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], b+": Oops"), lines[1])
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "tally", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotContains(t, out, "git_message", "unset build fields are omitted")
}

func TestVersionPretty(t *testing.T) {
	out, _, err := execute(t, "version", "--color", "off")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tally "), out)
	assert.NotContains(t, out, "\x1b[")

	_, _, err = execute(t, "version", "--format", "yaml")
	assert.EqualError(t, err, `unsupported format "yaml" (must be pretty or json)`)
}

func TestTraceToFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "trace.ndjson")
	_, _, err := execute(t, "--trace", tracePath, "eval", "1+2=")
	require.NoError(t, err)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"evaluate"`)
	assert.Contains(t, string(data), `"name":"fold"`)
}

func TestParseAutoSwitch(t *testing.T) {
	for in, want := range map[string]autoSwitch{
		"":      {},
		"AUTO":  {},
		"on":    {forced: true, value: true},
		" off ": {forced: true},
	} {
		got, err := parseAutoSwitch("ui", in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseAutoSwitch("ui", "sometimes")
	assert.EqualError(t, err, `invalid --ui "sometimes" (expected auto|on|off)`)

	on, _ := parseAutoSwitch("color", "on")
	assert.True(t, on.on(nil))
	auto, _ := parseAutoSwitch("color", "auto")
	assert.False(t, auto.on(nil), "auto without a terminal is off")
}
