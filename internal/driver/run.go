// Package driver runs keystroke scripts against fresh calculators and
// collects what a front end would have rendered.
package driver

import (
	"context"
	"fmt"

	"tally/internal/calc"
	"tally/internal/diag"
	"tally/internal/keys"
	"tally/internal/observ"
	"tally/internal/token"
	"tally/internal/trace"
)

// Frame is one keystroke and what it rendered, if anything.
type Frame struct {
	Key      keys.Key
	Handled  bool
	Rendered bool
	Update   calc.Update
}

// Outcome is the result of one "=" press. Input is the sequence that was
// handed to the evaluator, pending numeral included.
type Outcome struct {
	Pos    int
	Input  []token.Token
	Result calc.Result
	Err    error
}

// Transcript is everything a script produced.
type Transcript struct {
	Name     string
	Frames   []Frame
	Outcomes []Outcome
	Final    calc.Update
	State    calc.State
	Bag      *diag.Bag
	Timings  observ.Report
}

// Last returns the final "=" outcome.
func (t Transcript) Last() (Outcome, bool) {
	if len(t.Outcomes) == 0 {
		return Outcome{}, false
	}
	return t.Outcomes[len(t.Outcomes)-1], true
}

// Failed reports whether the last evaluation surfaced an error.
func (t Transcript) Failed() bool {
	last, ok := t.Last()
	return ok && last.Err != nil
}

// Options tunes a run.
type Options struct {
	MaxDiagnostics int
	Progress       ProgressSink // batch only
}

// Run feeds s into a new Calculator. The tracer is taken from ctx.
// Run stops early, returning ctx.Err(), if ctx is cancelled between keys.
func Run(ctx context.Context, s Script, opts Options) (Transcript, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	timer := observ.NewTimer()

	bag := diag.NewBag(opts.MaxDiagnostics)
	rec := &calc.Recorder{}
	c := calc.New(
		calc.WithDisplay(rec),
		calc.WithReporter(diag.BagReporter{Bag: bag}),
		calc.WithTracer(trace.FromContext(ctx)),
	)

	tr := Transcript{Name: s.Name, Bag: bag, Frames: make([]Frame, 0, len(s.Keys))}

	idx := timer.Begin("keys")
	for i, k := range s.Keys {
		if err := ctx.Err(); err != nil {
			timer.End(idx, "cancelled")
			tr.Timings = timer.Report()
			return tr, err
		}
		before := len(rec.Updates)
		f := Frame{Key: k}
		if k.Kind == keys.Evaluate {
			input := committed(c.Snapshot())
			res, err := c.RequestEvaluate()
			f.Handled = true
			tr.Outcomes = append(tr.Outcomes, Outcome{Pos: i, Input: input, Result: res, Err: err})
		} else {
			f.Handled, _ = c.Press(k)
		}
		if len(rec.Updates) > before {
			f.Rendered = true
			f.Update = rec.Updates[len(rec.Updates)-1]
			tr.Final = f.Update
		}
		tr.Frames = append(tr.Frames, f)
	}
	timer.End(idx, fmt.Sprintf("%d keys", len(s.Keys)))
	tr.State = c.Snapshot()
	tr.Timings = timer.Report()
	return tr, nil
}

// committed returns st's sequence as it will look once the pending numeral
// is committed.
func committed(st calc.State) []token.Token {
	if st.Pending == "" {
		return st.Tokens
	}
	return append(st.Tokens, token.Num(token.ParseNumber(st.Pending)))
}
