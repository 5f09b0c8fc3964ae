// Package keys maps input runes onto calculator keystrokes.
package keys

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"tally/internal/diag"
	"tally/internal/token"
)

// Kind is the category of a keystroke.
type Kind uint8

const (
	Invalid Kind = iota
	Digit
	Point
	Operator
	Clear
	Evaluate
)

func (k Kind) String() string {
	switch k {
	case Digit:
		return "digit"
	case Point:
		return "point"
	case Operator:
		return "operator"
	case Clear:
		return "clear"
	case Evaluate:
		return "evaluate"
	default:
		return "invalid"
	}
}

// Key is one button press.
type Key struct {
	Kind Kind
	Rune rune     // canonical rune for Digit and Point
	Op   token.Op // for Operator
}

// String renders the canonical keycap: "7", ".", "+", "C", "=".
func (k Key) String() string {
	switch k.Kind {
	case Digit, Point:
		return string(k.Rune)
	case Operator:
		return k.Op.Symbol()
	case Clear:
		return "C"
	case Evaluate:
		return "="
	default:
		return "?"
	}
}

// Convenience constructors.
func DigitKey(r rune) Key   { return Key{Kind: Digit, Rune: r} }
func OpKey(op token.Op) Key { return Key{Kind: Operator, Op: op} }
func PointKey() Key         { return Key{Kind: Point, Rune: '.'} }
func ClearKey() Key         { return Key{Kind: Clear} }
func EvaluateKey() Key      { return Key{Kind: Evaluate} }

var aliases = map[rune]rune{
	'x': '*',
	'X': '*',
	'×': '*',
	'∗': '*',
	'·': '*',
	'÷': '/',
	'−': '-',
	'–': '-',
}

// Parse maps a single, already normalized rune to a Key.
func Parse(r rune) (Key, bool) {
	if a, ok := aliases[r]; ok {
		r = a
	}
	switch {
	case r >= '0' && r <= '9':
		return DigitKey(r), true
	case r == '.':
		return PointKey(), true
	case r == 'c' || r == 'C':
		return ClearKey(), true
	case r == '=' || r == '\n' || r == '\r':
		return EvaluateKey(), true
	}
	if op, ok := token.LookupOp(r); ok {
		return OpKey(op), true
	}
	return Key{}, false
}

// ParseScript turns a keystroke script such as "12+3×4=" into keys.
// Input is NFKC-normalized first, so full-width forms like "１２＋３" are
// accepted. Other whitespace is skipped; a line break acts as "=".
// Error positions are rune offsets into the normalized script.
func ParseScript(s string) ([]Key, error) {
	s = strings.ReplaceAll(norm.NFKC.String(s), "\r\n", "\n")
	out := make([]Key, 0, len(s))
	pos := 0
	for _, r := range s {
		if unicode.IsSpace(r) && r != '\n' && r != '\r' {
			pos++
			continue
		}
		k, ok := Parse(r)
		if !ok {
			return nil, diag.Errorf(diag.KeyUnknown, pos, "unrecognized keystroke %q at offset %d", r, pos)
		}
		out = append(out, k)
		pos++
	}
	return out, nil
}

// Format renders keys back into a script.
func Format(ks []Key) string {
	var b strings.Builder
	for _, k := range ks {
		b.WriteString(k.String())
	}
	return b.String()
}
