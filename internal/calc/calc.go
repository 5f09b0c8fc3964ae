// Package calc implements the token stream builder: the per-keystroke state
// machine that accumulates a pending numeral and a committed token sequence,
// and hands the sequence to the evaluator on "=".
//
// Invariants:
//   - the pending numeral holds at most one decimal point;
//   - the committed sequence alternates Number, Operator, ... and may end on an
//     Operator only while entry is in progress;
//   - every evaluate, successful or not, empties the committed sequence;
//   - every surfaced error also empties the pending numeral.
package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"tally/internal/diag"
	"tally/internal/eval"
	"tally/internal/keys"
	"tally/internal/token"
	"tally/internal/trace"
)

// Result is a successful evaluation.
type Result struct {
	Value float64
	Text  string
}

// State is a copy of the session state.
type State struct {
	Pending string
	Tokens  []token.Token
}

// Calculator owns one entry session. All methods are safe for concurrent use;
// each handler runs to completion under a single lock.
type Calculator struct {
	mu       sync.Mutex
	pending  []byte
	seq      []token.Token
	display  Display
	reporter diag.Reporter
	tracer   *trace.Tracer
	keyIndex int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithDisplay sets the display collaborator.
func WithDisplay(d Display) Option {
	return func(c *Calculator) {
		if d != nil {
			c.display = d
		}
	}
}

// WithReporter sets where recovered and surfaced conditions are reported.
func WithReporter(r diag.Reporter) Option {
	return func(c *Calculator) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithTracer sets the tracer. A nil tracer records nothing.
func WithTracer(t *trace.Tracer) Option {
	return func(c *Calculator) {
		c.tracer = t
	}
}

// New returns a Calculator with an empty session.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		display:  nopDisplay{},
		reporter: diag.NopReporter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Calculator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Pending: string(c.pending), Tokens: token.Clone(c.seq)}
}

// Press dispatches a keystroke to the matching entry point. It reports
// whether the key changed anything; an evaluate always counts as handled and
// its error, if any, is returned.
func (c *Calculator) Press(k keys.Key) (bool, error) {
	switch k.Kind {
	case keys.Digit, keys.Point:
		return c.SubmitDigitOrPoint(k.Rune), nil
	case keys.Operator:
		return c.SubmitOperator(k.Op), nil
	case keys.Clear:
		c.Clear()
		return true, nil
	case keys.Evaluate:
		_, err := c.RequestEvaluate()
		return true, err
	default:
		c.mu.Lock()
		defer c.mu.Unlock()
		pos := c.nextKey()
		diag.ReportInfo(c.reporter, diag.KeyUnknown, pos, "ignored invalid key").Emit()
		return false, nil
	}
}

// SubmitDigitOrPoint appends a digit, or a point if the numeral has none yet.
// A second point, or any other rune, is ignored: nothing is rendered and the
// call returns false.
func (c *Calculator) SubmitDigitOrPoint(ch rune) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.nextKey()

	switch {
	case ch >= '0' && ch <= '9':
	case ch == '.':
		if strings.IndexByte(string(c.pending), '.') >= 0 {
			diag.ReportInfo(c.reporter, diag.KeyDuplicatePoint, pos, "numeral already has a decimal point").Emit()
			c.traceKey(pos, ".", false)
			return false
		}
	default:
		diag.ReportInfo(c.reporter, diag.KeyUnknown, pos, "not a digit or point: "+strconv.QuoteRune(ch)).Emit()
		c.traceKey(pos, string(ch), false)
		return false
	}

	c.pending = append(c.pending, byte(ch))
	c.traceKey(pos, string(ch), true)
	c.display.Render(Update{Text: string(c.pending)})
	return true
}

// SubmitOperator commits the pending numeral, then appends op if the
// sequence ends on a Number. On an empty sequence, or after another
// operator, op is refused and false is returned.
func (c *Calculator) SubmitOperator(op token.Op) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.nextKey()

	if op == token.OpNone {
		diag.ReportInfo(c.reporter, diag.KeyUnknown, pos, "not an operator").Emit()
		c.traceKey(pos, "?", false)
		return false
	}

	c.commitPending()

	last, ok := token.Last(c.seq)
	if !ok || !last.IsNumber() {
		msg := "operator " + op.Symbol() + " refused: no number before it"
		if ok {
			msg = "operator " + op.Symbol() + " refused: follows " + last.Op.Symbol()
		}
		diag.ReportInfo(c.reporter, diag.ExprOperatorRefused, pos, msg).Emit()
		c.traceKey(pos, op.Symbol(), false)
		return false
	}

	c.seq = append(c.seq, token.Oper(op))
	c.traceKey(pos, op.Symbol(), true)
	c.display.Render(Update{Text: token.Join(c.seq)})
	return true
}

// Clear empties the session and renders an empty display.
func (c *Calculator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.nextKey()

	c.reset()
	c.tracer.Point(trace.ScopeSession, "clear", "", map[string]string{"pos": strconv.Itoa(pos)})
	c.display.Render(Update{})
}

// RequestEvaluate commits the pending numeral and evaluates the sequence.
//
//   - A sequence ending on an operator fails with ErrMalformedExpression.
//   - An empty sequence yields 0, and 0 becomes the pending numeral.
//   - A non-finite result fails with ErrNonFiniteResult carrying the value.
//   - Otherwise the result becomes the pending numeral, so entry can continue.
//
// The committed sequence is empty afterwards in every case; on failure the
// pending numeral is empty too.
func (c *Calculator) RequestEvaluate() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.nextKey()

	span := c.tracer.Begin(trace.ScopeSession, "evaluate", 0)

	c.commitPending()

	if last, ok := token.Last(c.seq); ok && last.IsOperator() {
		err := diag.Errorf(diag.ExprMalformed, pos, "expression %q ends with %s", token.Join(c.seq), last.Op)
		return Result{}, c.fail(span, err)
	}

	if len(c.seq) == 0 {
		res := Result{Value: 0, Text: "0"}
		c.pending = append(c.pending[:0], res.Text...)
		span.With("result", res.Text).End("empty")
		c.display.Render(Update{Text: res.Text})
		return res, nil
	}

	snapshot := token.Clone(c.seq)
	c.seq = c.seq[:0]

	value, err := c.evaluate(span.ID(), snapshot)
	if err != nil {
		return Result{}, c.fail(span, asDiagError(err))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		nf := diag.NonFinite(value)
		nf.Pos = pos
		return Result{}, c.fail(span, nf)
	}

	res := Result{Value: value, Text: token.FormatNumber(value)}
	c.pending = append(c.pending[:0], res.Text...)
	span.With("result", res.Text).End("ok")
	c.display.Render(Update{Text: res.Text})
	return res, nil
}

func (c *Calculator) evaluate(parent uint64, seq []token.Token) (float64, error) {
	reduce := c.tracer.Begin(trace.ScopePass, "reduce", parent)
	reduced, err := eval.Reduce(seq)
	if err != nil {
		reduce.End(err.Error())
		return 0, err
	}
	reduce.With("out", token.Join(reduced)).End("")

	fold := c.tracer.Begin(trace.ScopePass, "fold", parent)
	value, err := eval.Fold(reduced)
	if err != nil {
		fold.End(err.Error())
		return 0, err
	}
	fold.With("out", token.FormatNumber(value)).End("")
	return value, nil
}

// fail resets the session, reports err and renders the error.
func (c *Calculator) fail(span *trace.Span, err *diag.Error) error {
	c.reset()
	c.reporter.Report(err.Code, diag.SevError, err.Pos, err.Error(), nil)
	span.With("code", err.Code.ID()).End("error")
	c.display.Render(Update{Err: err})
	return err
}

func asDiagError(err error) *diag.Error {
	var de *diag.Error
	if errors.As(err, &de) {
		return de
	}
	return diag.Errorf(diag.UnknownCode, diag.NoPos, "%v", err)
}

// commitPending turns a non-empty pending numeral into a Number token.
func (c *Calculator) commitPending() {
	if len(c.pending) == 0 {
		return
	}
	c.seq = append(c.seq, token.Num(token.ParseNumber(string(c.pending))))
	c.pending = c.pending[:0]
}

func (c *Calculator) reset() {
	c.pending = c.pending[:0]
	c.seq = c.seq[:0]
}

func (c *Calculator) nextKey() int {
	pos := c.keyIndex
	c.keyIndex++
	return pos
}

func (c *Calculator) traceKey(pos int, key string, accepted bool) {
	if !c.tracer.Enabled(trace.ScopeKey) {
		return
	}
	c.tracer.Point(trace.ScopeKey, "key", key, map[string]string{
		"pos":      strconv.Itoa(pos),
		"accepted": strconv.FormatBool(accepted),
		"pending":  string(c.pending),
		"seq":      token.Join(c.seq),
	})
}
