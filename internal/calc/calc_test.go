package calc_test

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/calc"
	"tally/internal/diag"
	"tally/internal/keys"
	"tally/internal/testkit"
	"tally/internal/token"
)

type harness struct {
	c   *calc.Calculator
	rec *calc.Recorder
	bag *diag.Bag
}

func newHarness() *harness {
	rec := &calc.Recorder{}
	bag := diag.NewBag(64)
	return &harness{
		c:   calc.New(calc.WithDisplay(rec), calc.WithReporter(diag.BagReporter{Bag: bag})),
		rec: rec,
		bag: bag,
	}
}

// press feeds a script and returns the error of the last "=" if any.
func (h *harness) press(t *testing.T, script string) error {
	t.Helper()
	ks, err := keys.ParseScript(script)
	require.NoError(t, err)
	var last error
	for _, k := range ks {
		_, err := h.c.Press(k)
		if k.Kind == keys.Evaluate {
			last = err
		}
		require.NoError(t, testkit.CheckState(h.c.Snapshot()))
	}
	return last
}

func (h *harness) display(t *testing.T) calc.Update {
	t.Helper()
	u, ok := h.rec.Last()
	require.True(t, ok, "nothing was rendered")
	return u
}

func TestDigitsAccumulateWithSinglePoint(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "1.2.3.4"))
	assert.Equal(t, "1.234", h.c.Snapshot().Pending)
	assert.Equal(t, "1.234", h.display(t).Text)

	dups := h.bag.Filter(diag.SevInfo)
	require.Len(t, dups, 2)
	for _, d := range dups {
		assert.Equal(t, diag.KeyDuplicatePoint, d.Code)
	}
}

func TestSecondPointLeavesBufferUnchanged(t *testing.T) {
	h := newHarness()
	h.c.SubmitDigitOrPoint('5')
	h.c.SubmitDigitOrPoint('.')
	renders := len(h.rec.Updates)
	assert.False(t, h.c.SubmitDigitOrPoint('.'))
	assert.Equal(t, "5.", h.c.Snapshot().Pending)
	assert.Len(t, h.rec.Updates, renders, "an ignored keystroke must not render")
}

func TestNonDigitIsIgnored(t *testing.T) {
	h := newHarness()
	assert.False(t, h.c.SubmitDigitOrPoint('a'))
	assert.Empty(t, h.c.Snapshot().Pending)
	assert.Empty(t, h.rec.Updates)
}

func TestOperatorOnEmptySequenceIsRefused(t *testing.T) {
	h := newHarness()
	assert.False(t, h.c.SubmitOperator(token.Add))
	st := h.c.Snapshot()
	assert.Empty(t, st.Tokens)
	assert.Empty(t, h.rec.Updates)
	require.Equal(t, 1, h.bag.Len())
	assert.Equal(t, diag.ExprOperatorRefused, h.bag.Items()[0].Code)
}

func TestSecondConsecutiveOperatorIsRefused(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "7+"))
	before := h.c.Snapshot()
	assert.False(t, h.c.SubmitOperator(token.Mul))
	assert.Equal(t, before, h.c.Snapshot())
	assert.Equal(t, "7 +", h.display(t).Text)
}

func TestBareEvaluateYieldsZero(t *testing.T) {
	h := newHarness()
	res, err := h.c.RequestEvaluate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, "0", h.display(t).Text)
	assert.Equal(t, "0", h.c.Snapshot().Pending)
}

func TestTrailingOperatorIsMalformed(t *testing.T) {
	h := newHarness()
	err := h.press(t, "1+1+=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrMalformedExpression))
	assert.True(t, errors.Is(h.display(t).Err, diag.ErrMalformedExpression))

	st := h.c.Snapshot()
	assert.Empty(t, st.Pending)
	assert.Empty(t, st.Tokens)
	assert.True(t, h.bag.HasErrors())
}

func TestPrecedenceEndToEnd(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "12+3*4"))
	// the pending 4 is not committed yet
	assert.Equal(t, "12 + 3 *", token.Join(h.c.Snapshot().Tokens))

	res, err := h.c.RequestEvaluate()
	require.NoError(t, err)
	assert.Equal(t, 24.0, res.Value)
	assert.Equal(t, "24", h.display(t).Text)
	assert.Empty(t, h.c.Snapshot().Tokens)
}

func TestDivisionByZeroIsNonFinite(t *testing.T) {
	h := newHarness()
	err := h.press(t, "6/0=")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrNonFiniteResult))

	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.True(t, math.IsInf(de.Value, 1), "computed value should be kept, got %v", de.Value)

	u := h.display(t)
	assert.Empty(t, u.Text)
	assert.Error(t, u.Err)
	assert.Equal(t, calc.State{Pending: "", Tokens: []token.Token{}}, normalize(h.c.Snapshot()))
}

func TestLonePointEvaluatesToNonFinite(t *testing.T) {
	h := newHarness()
	err := h.press(t, ".=")
	assert.True(t, errors.Is(err, diag.ErrNonFiniteResult))
}

func TestClearIsIdempotent(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "12+3"))
	h.c.Clear()
	once := h.c.Snapshot()
	h.c.Clear()
	assert.Equal(t, normalize(once), normalize(h.c.Snapshot()))
	assert.Equal(t, calc.Update{}, h.display(t))
}

func TestLeftToRightDivision(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "8/4/2="))
	assert.Equal(t, "1", h.display(t).Text)
}

func TestEntryContinuesFromResult(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "12+3*4="))
	require.NoError(t, h.press(t, "+1="))
	assert.Equal(t, "25", h.display(t).Text)

	// digits typed after a result extend it
	require.NoError(t, h.press(t, "5"))
	assert.Equal(t, "255", h.c.Snapshot().Pending)
}

func TestNegativeResultFeedsNextExpression(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "2-5="))
	assert.Equal(t, "-3", h.display(t).Text)
	require.NoError(t, h.press(t, "*2="))
	assert.Equal(t, "-6", h.display(t).Text)
}

func TestOperatorDisplayShowsJoinedSequence(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.press(t, "1.5*2-"))
	assert.Equal(t, "1.5 * 2 -", h.display(t).Text)
}

func TestConcurrentPressesKeepInvariants(t *testing.T) {
	c := calc.New()
	ks, err := keys.ParseScript("12+3*4.5.6-7/8=")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, k := range ks {
					_, _ = c.Press(k)
				}
			}
		}()
	}
	wg.Wait()
	assert.NoError(t, testkit.CheckState(c.Snapshot()))
}

func TestIndependentInstances(t *testing.T) {
	a, b := newHarness(), newHarness()
	require.NoError(t, a.press(t, "9"))
	require.NoError(t, b.press(t, "1+"))
	assert.Equal(t, "9", a.c.Snapshot().Pending)
	assert.Empty(t, b.c.Snapshot().Pending)
	assert.True(t, strings.HasSuffix(token.Join(b.c.Snapshot().Tokens), "+"))
}

func normalize(st calc.State) calc.State {
	if st.Tokens == nil {
		st.Tokens = []token.Token{}
	}
	return st
}
