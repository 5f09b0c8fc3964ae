package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}

	a := tm.Begin("load")
	tm.End(a, "2 files")
	b := tm.Begin("keys")
	tm.End(b, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].Note != "2 files" {
		t.Errorf("phase 0 = %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("total %v smaller than a phase", r.TotalMS)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 2 files", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestReportMerge(t *testing.T) {
	base := Report{TotalMS: 1, Phases: []PhaseReport{{Name: "batch", DurationMS: 1}}}
	other := Report{TotalMS: 2, Phases: []PhaseReport{{Name: "keys", DurationMS: 2}}}

	got := base.Merge("a.calc", other)
	if len(got.Phases) != 2 || got.Phases[1].Name != "a.calc/keys" {
		t.Fatalf("merged phases = %+v", got.Phases)
	}
	if got.TotalMS != 3 {
		t.Errorf("total = %v, want 3", got.TotalMS)
	}
	if len(base.Phases) != 1 {
		t.Errorf("merge modified receiver: %+v", base.Phases)
	}
}
