// Package diagfmt renders diagnostic bags for the command line.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tally/internal/diag"
)

// Severity aliases diag.Severity so callers can set thresholds without
// importing diag.
type Severity = diag.Severity

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
	noteColor    = color.New(color.FgBlue)
)

// Pretty writes one line per diagnostic:
//
//	<source>:<pos>: <SEV> <CODE>: <message>
//
// followed by its notes. Items are printed in bag order; call bag.Sort first
// for a stable listing.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	runes := []rune(opts.Keys)
	for _, d := range bag.Items() {
		if d.Severity < opts.MinSev {
			continue
		}
		var sb strings.Builder
		sb.WriteString(location(opts.Source, d.Pos))
		sb.WriteString(": ")
		sb.WriteString(paint(opts.Color, sevColor(d.Severity), d.Severity.String()))
		sb.WriteByte(' ')
		sb.WriteString(paint(opts.Color, codeColor, d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		if d.Pos >= 0 && d.Pos < len(runes) {
			fmt.Fprintf(&sb, " [key %q]", runes[d.Pos])
		}
		sb.WriteByte('\n')
		if opts.ShowNotes {
			for _, n := range d.Notes {
				sb.WriteString("  ")
				sb.WriteString(paint(opts.Color, noteColor, "note"))
				sb.WriteString(": ")
				if n.Pos != diag.NoPos {
					fmt.Fprintf(&sb, "key %d: ", n.Pos)
				}
				sb.WriteString(n.Msg)
				sb.WriteByte('\n')
			}
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func location(source string, pos int) string {
	if source == "" {
		source = "<keys>"
	}
	if pos == diag.NoPos {
		return source
	}
	return fmt.Sprintf("%s:%d", source, pos)
}

func sevColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(enabled bool, c *color.Color, s string) string {
	if !enabled {
		return s
	}
	// fatih/color consults its global NoColor; force it per call.
	c.EnableColor()
	return c.Sprint(s)
}
