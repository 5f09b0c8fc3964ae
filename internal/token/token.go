package token

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Token is a committed element of an expression.
type Token struct {
	Kind  Kind
	Value float64 // valid when Kind == Number
	Op    Op      // valid when Kind == Operator
}

// Num constructs a Number token.
func Num(v float64) Token { return Token{Kind: Number, Value: v} }

// Oper constructs an Operator token.
func Oper(op Op) Token { return Token{Kind: Operator, Op: op} }

// IsNumber reports whether the token is a number.
func (t Token) IsNumber() bool { return t.Kind == Number }

// IsOperator reports whether the token is an operator.
func (t Token) IsOperator() bool { return t.Kind == Operator }

// String renders the token the way it appears on the display.
func (t Token) String() string {
	switch t.Kind {
	case Number:
		return FormatNumber(t.Value)
	case Operator:
		return t.Op.Symbol()
	default:
		return "<invalid>"
	}
}

// FormatNumber renders v in plain decimal notation with the shortest
// representation that round-trips. Non-finite values render as
// "Infinity", "-Infinity" and "NaN".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if v == 0 {
		// collapse -0
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber converts numeral text into a value. Text that does not form a
// number (a lone ".", an empty string) yields NaN. Out-of-range text yields ±Inf.
func ParseNumber(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// Join renders a sequence separated by single spaces, e.g. "12 + 3 *".
func Join(seq []Token) string {
	parts := make([]string, len(seq))
	for i, t := range seq {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Last returns the final token of seq and whether one exists.
func Last(seq []Token) (Token, bool) {
	if len(seq) == 0 {
		return Token{}, false
	}
	return seq[len(seq)-1], true
}

// Clone returns an independent copy of seq.
func Clone(seq []Token) []Token {
	if seq == nil {
		return nil
	}
	out := make([]Token, len(seq))
	copy(out, seq)
	return out
}

// WellFormed reports whether seq is non-empty and strictly alternates
// Number, Operator, ..., Number.
func WellFormed(seq []Token) bool {
	if len(seq)%2 == 0 {
		return false
	}
	for i, t := range seq {
		if i%2 == 0 && !t.IsNumber() {
			return false
		}
		if i%2 == 1 && (!t.IsOperator() || t.Op == OpNone) {
			return false
		}
	}
	return true
}
