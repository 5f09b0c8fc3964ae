package testkit

import (
	"fmt"
	"strings"

	"tally/internal/calc"
	"tally/internal/token"
)

// CheckSequence verifies the alternation invariant on a committed sequence:
// 1) even positions are Numbers, odd positions are Operators
// 2) the sequence ends on a Number unless allowTrailingOp is set
// 3) no operator slot holds OpNone
func CheckSequence(seq []token.Token, allowTrailingOp bool) error {
	for i, t := range seq {
		switch {
		case i%2 == 0 && !t.IsNumber():
			return fmt.Errorf("position %d: want number, got %v", i, t.Kind)
		case i%2 == 1 && !t.IsOperator():
			return fmt.Errorf("position %d: want operator, got %v", i, t.Kind)
		case i%2 == 1 && t.Op == token.OpNone:
			return fmt.Errorf("position %d: operator slot is empty", i)
		}
	}
	if last, ok := token.Last(seq); ok && last.IsOperator() && !allowTrailingOp {
		return fmt.Errorf("sequence %q ends with an operator", token.Join(seq))
	}
	return nil
}

// CheckPending verifies that a pending numeral holds digits and at most one
// point. A leading '-' is allowed because a negative result seeds the numeral.
func CheckPending(text string) error {
	body := strings.TrimPrefix(text, "-")
	if strings.Count(body, ".") > 1 {
		return fmt.Errorf("pending %q has more than one point", text)
	}
	for _, r := range body {
		if r != '.' && (r < '0' || r > '9') {
			return fmt.Errorf("pending %q contains %q", text, r)
		}
	}
	return nil
}

// CheckState runs CheckPending and CheckSequence on a calculator snapshot.
// Mid-entry states may end on an operator.
func CheckState(st calc.State) error {
	if err := CheckPending(st.Pending); err != nil {
		return err
	}
	if st.Pending != "" {
		if last, ok := token.Last(st.Tokens); ok && last.IsNumber() {
			return fmt.Errorf("pending %q follows a committed number", st.Pending)
		}
	}
	return CheckSequence(st.Tokens, true)
}
