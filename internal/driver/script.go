package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/diag"
	"tally/internal/keys"
	"tally/internal/tape"
)

// Script is a named list of keystrokes.
type Script struct {
	Name string
	Keys []keys.Key
}

// ParseScript builds a Script from inline keystroke text.
func ParseScript(name, text string) (Script, error) {
	ks, err := keys.ParseScript(text)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", name, err)
	}
	return Script{Name: name, Keys: ks}, nil
}

// LoadScript reads a tape or a text script from path. Text scripts may
// carry '#' comments to the end of a line.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, diag.Errorf(diag.IOLoadFileError, diag.NoPos, "failed to load file: %v", err)
	}
	name := filepath.Base(path)
	if !tape.IsTape(data) {
		return ParseScript(name, stripComments(string(data)))
	}
	tp, err := tape.Decode(bytes.NewReader(data))
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", name, err)
	}
	ks, err := tp.KeyList()
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", name, err)
	}
	if tp.Label != "" {
		name = tp.Label
	}
	return Script{Name: name, Keys: ks}, nil
}

// stripComments drops '#' comments and lines left blank, keeping the line
// breaks of lines that still carry keys.
func stripComments(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		body, nl := strings.CutSuffix(line, "\n")
		if idx := strings.IndexByte(body, '#'); idx >= 0 {
			body = body[:idx]
		}
		body = strings.TrimRight(body, " \t\r")
		if strings.TrimSpace(body) == "" {
			continue
		}
		b.WriteString(body)
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
