package diag

import (
	"fmt"
	"math"
)

// Error is an error value tagged with a Code. Value holds the offending
// number for EvalNonFinite, and is NaN otherwise.
type Error struct {
	Code  Code
	Pos   int
	Msg   string
	Value float64
}

var (
	// ErrInvalidKeystroke matches errors for unrecognized or duplicate keystrokes.
	ErrInvalidKeystroke = &Error{Code: KeyUnknown}
	// ErrMalformedExpression matches errors for a sequence ending on an operator.
	ErrMalformedExpression = &Error{Code: ExprMalformed}
	// ErrNonFiniteResult matches errors for an infinite or NaN result.
	ErrNonFiniteResult = &Error{Code: EvalNonFinite}
)

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, pos int, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...), Value: math.NaN()}
}

// NonFinite builds the EvalNonFinite error for value v.
func NonFinite(v float64) *Error {
	return &Error{Code: EvalNonFinite, Pos: NoPos, Msg: fmt.Sprintf("result is %v", v), Value: v}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.Title()
	}
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

// Is matches any *Error in the same code family. Both KeyUnknown and
// KeyDuplicatePoint match ErrInvalidKeystroke.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == KeyUnknown && (e.Code == KeyUnknown || e.Code == KeyDuplicatePoint) {
		return true
	}
	return e.Code == t.Code
}

// Diagnostic converts the error into a SevError diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	return New(SevError, e.Code, e.Pos, e.Error())
}
