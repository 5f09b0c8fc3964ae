package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Mode picks where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // only the most recent RingSize kept in memory
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

// ParseMode converts a string to Mode. Empty means stream.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Config describes a Tracer. An empty Path or "-" streams to stderr.
type Config struct {
	Level    Level
	Mode     Mode
	Format   Format
	Path     string
	RingSize int
}

const defaultRingSize = 256

// Tracer records calculator events. A nil *Tracer is valid and records
// nothing; every method may be called on it.
type Tracer struct {
	level  Level
	format Format

	mu     sync.Mutex
	seq    uint64
	spans  uint64
	out    io.Writer
	closer io.Closer
	ring   []Event
	head   int
	full   bool
}

// New builds a Tracer from cfg. LevelOff yields a nil Tracer.
func New(cfg Config) (*Tracer, error) {
	if cfg.Level == LevelOff {
		return nil, nil
	}
	t := &Tracer{level: cfg.Level, format: cfg.Format}
	if t.format == FormatAuto {
		t.format = FormatText
		if strings.HasSuffix(cfg.Path, ".ndjson") || strings.HasSuffix(cfg.Path, ".jsonl") {
			t.format = FormatNDJSON
		}
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		t.ring = make([]Event, size)
	}
	if cfg.Mode == ModeRing {
		return t, nil
	}
	if cfg.Path == "" || cfg.Path == "-" {
		t.out = os.Stderr
		return t, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	t.out, t.closer = f, f
	return t, nil
}

// NewWriter streams events to w, which the Tracer never closes.
func NewWriter(w io.Writer, level Level, format Format) *Tracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Tracer{level: level, format: format, out: w}
}

// NewRing keeps the last size events in memory.
func NewRing(size int, level Level) *Tracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Tracer{level: level, format: FormatText, ring: make([]Event, size)}
}

// Level returns the tracing level; LevelOff for a nil Tracer.
func (t *Tracer) Level() Level {
	if t == nil {
		return LevelOff
	}
	return t.level
}

// Enabled reports whether events of scope are recorded.
func (t *Tracer) Enabled(scope Scope) bool {
	return t != nil && t.level.ShouldEmit(scope)
}

// Point records an instant event.
func (t *Tracer) Point(scope Scope, name, detail string, extra map[string]string) {
	if !t.Enabled(scope) {
		return
	}
	t.record(&Event{
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
		Extra:  extra,
	})
}

// record stamps ev with the next sequence number and stores or writes it.
// Write errors are dropped: a broken trace sink never fails a calculation.
func (t *Tracer) record(ev *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	if ev.Time.IsZero() {
		ev.Time = now()
	}
	if t.out != nil {
		_, _ = t.out.Write(FormatEvent(ev, t.format))
	}
	if t.ring != nil {
		t.ring[t.head] = *ev
		t.head = (t.head + 1) % len(t.ring)
		if t.head == 0 {
			t.full = true
		}
	}
}

func (t *Tracer) nextSpan() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans++
	return t.spans
}

// Recent returns the events held in memory, oldest first. It is empty
// unless the Tracer keeps a ring.
func (t *Tracer) Recent() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.ring[:t.head]...)
	}
	out := make([]Event, 0, len(t.ring))
	out = append(out, t.ring[t.head:]...)
	return append(out, t.ring[:t.head]...)
}

// WriteRecent writes Recent as text, one event per line.
func (t *Tracer) WriteRecent(w io.Writer) error {
	for _, ev := range t.Recent() {
		if _, err := w.Write(FormatEvent(&ev, FormatText)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases a trace file opened by New.
func (t *Tracer) Close() error {
	if t == nil || t.closer == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.closer.Close()
	t.closer, t.out = nil, nil
	return err
}

type ctxKey struct{}

// NewContext returns ctx carrying t.
func NewContext(ctx context.Context, t *Tracer) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the Tracer carried by ctx, or nil.
func FromContext(ctx context.Context) *Tracer {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(ctxKey{}).(*Tracer)
	return t
}
