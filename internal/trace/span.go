package trace

import "time"

// now is swapped in tests that need stable timestamps.
var now = time.Now

// Span brackets an operation with begin and end events. A nil *Span is
// returned when the scope is not traced; its methods do nothing.
type Span struct {
	t       *Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin records a begin event. parent is the enclosing span ID, 0 for none.
func (t *Tracer) Begin(scope Scope, name string, parent uint64) *Span {
	if !t.Enabled(scope) {
		return nil
	}
	s := &Span{t: t, id: t.nextSpan(), parent: parent, scope: scope, name: name, started: now()}
	t.record(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// With attaches a key/value pair to the end event.
func (s *Span) With(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End records the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	d := now().Sub(s.started)
	s.t.record(&Event{
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return d
}

// ID returns the span ID, 0 for a nil Span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
