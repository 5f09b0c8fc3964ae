package trace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSession, false},
		{LevelSession, ScopeSession, true},
		{LevelSession, ScopeKey, false},
		{LevelKey, ScopeKey, true},
		{LevelKey, ScopePass, false},
		{LevelPass, ScopePass, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%v.ShouldEmit(%v) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "session", "KEY", "pass"} {
		if _, err := ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) should fail")
	}
	if m, err := ParseMode(""); err != nil || m != ModeStream {
		t.Fatalf("ParseMode(\"\") = %v, %v", m, err)
	}
}

func TestWriterText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriter(&buf, LevelKey, FormatText)
	tr.Point(ScopeKey, "key", "7", map[string]string{"pending": "7", "accepted": "true"})
	tr.Point(ScopePass, "reduce", "", nil) // filtered by level
	out := buf.String()
	if !strings.HasPrefix(out, "#1 ") {
		t.Fatalf("first event should be #1: %q", out)
	}
	if !strings.Contains(out, "• key (7) {accepted=true, pending=7}") {
		t.Fatalf("unexpected text trace: %q", out)
	}
	if strings.Contains(out, "reduce") {
		t.Fatalf("pass event leaked through LevelKey: %q", out)
	}
}

func TestWriterNDJSONSpan(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriter(&buf, LevelPass, FormatNDJSON)
	span := tr.Begin(ScopePass, "reduce", 0)
	if span.ID() != 1 {
		t.Fatalf("span id = %d", span.ID())
	}
	span.With("out", "12 + 12").End("ok")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], `"kind":"end"`) || !strings.Contains(lines[1], `"out":"12 + 12"`) {
		t.Fatalf("unexpected end event: %s", lines[1])
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRing(3, LevelKey)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Point(ScopeKey, name, "", nil)
	}
	recent := r.Recent()
	if len(recent) != 3 {
		t.Fatalf("recent len = %d", len(recent))
	}
	if recent[0].Name != "c" || recent[2].Name != "e" || recent[2].Seq != 5 {
		t.Fatalf("recent out of order: %+v", recent)
	}
	var buf bytes.Buffer
	if err := r.WriteRecent(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump: %q", buf.String())
	}
}

func TestNilTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr != nil || tr.Enabled(ScopeSession) || tr.Level() != LevelOff {
		t.Fatalf("LevelOff must yield a disabled nil tracer")
	}
	tr.Point(ScopeSession, "clear", "", nil)
	if span := tr.Begin(ScopeSession, "evaluate", 0); span != nil || span.ID() != 0 {
		t.Fatalf("nil tracer produced a span")
	}
	if tr.Recent() != nil || tr.Close() != nil {
		t.Fatalf("nil tracer should be inert")
	}
	if FromContext(context.Background()) != nil {
		t.Fatalf("empty context must yield nil")
	}
	live := NewRing(4, LevelKey)
	if FromContext(NewContext(context.Background(), live)) != live {
		t.Fatalf("tracer lost in context")
	}
}

func TestNewBothFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.ndjson")
	tr, err := New(Config{Level: LevelKey, Mode: ModeBoth, Path: path, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	tr.Point(ScopeKey, "key", "1", nil)
	if len(tr.Recent()) != 1 {
		t.Fatalf("ring did not record the event")
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"key"`) {
		t.Fatalf("file not NDJSON: %q", data)
	}
}
