// Package eval computes the value of a committed token sequence in two
// passes: * and / collapse left to right first, then + and - are folded
// left to right over what remains.
//
// Evaluation is a pure function of its input. Non-finite values produced by
// division are returned as values, never raised; callers classify them.
package eval

import (
	"tally/internal/diag"
	"tally/internal/token"
)

// Steps is the intermediate state of an evaluation.
type Steps struct {
	Input   []token.Token
	Reduced []token.Token
	Result  float64
}

// Reduce runs the high-precedence pass. Each * or / consumes the operator and
// its right operand, combining them with the most recent value already in the
// output; the output is therefore Number, {+|-}, Number, ... only.
func Reduce(seq []token.Token) ([]token.Token, error) {
	if err := checkShape(seq); err != nil {
		return nil, err
	}
	out := make([]token.Token, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		t := seq[i]
		if t.IsOperator() && t.Op.HighPrecedence() {
			left := out[len(out)-1]
			right := seq[i+1]
			out[len(out)-1] = token.Num(t.Op.Apply(left.Value, right.Value))
			i++
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Fold runs the low-precedence pass over a reduced sequence.
func Fold(seq []token.Token) (float64, error) {
	if err := checkShape(seq); err != nil {
		return 0, err
	}
	acc := seq[0].Value
	for i := 1; i+1 < len(seq); i += 2 {
		op := seq[i].Op
		if op.HighPrecedence() {
			return 0, diag.Errorf(diag.ExprMalformed, i, "unreduced %s at position %d", op, i)
		}
		acc = op.Apply(acc, seq[i+1].Value)
	}
	return acc, nil
}

// Evaluate returns Fold(Reduce(seq)).
func Evaluate(seq []token.Token) (float64, error) {
	steps, err := Explain(seq)
	if err != nil {
		return 0, err
	}
	return steps.Result, nil
}

// Explain evaluates seq and keeps the reduced sequence for display.
func Explain(seq []token.Token) (Steps, error) {
	reduced, err := Reduce(seq)
	if err != nil {
		return Steps{}, err
	}
	result, err := Fold(reduced)
	if err != nil {
		return Steps{}, err
	}
	return Steps{Input: token.Clone(seq), Reduced: reduced, Result: result}, nil
}

func checkShape(seq []token.Token) error {
	if len(seq) == 0 {
		return diag.Errorf(diag.ExprMalformed, diag.NoPos, "empty sequence")
	}
	if !token.WellFormed(seq) {
		if last, _ := token.Last(seq); last.IsOperator() {
			return diag.Errorf(diag.ExprMalformed, len(seq)-1, "sequence ends with %s", last.Op)
		}
		return diag.Errorf(diag.ExprMalformed, diag.NoPos, "tokens do not alternate: %s", token.Join(seq))
	}
	return nil
}
