// Package trace records what a calculator session did, keystroke by keystroke.
//
//	tally eval --trace=- --trace-level=key '12+3*4='
//
// A Tracer either streams events as they happen, keeps the last few in
// memory for a dump when a script fails, or both. The zero Tracer is a nil
// pointer and records nothing, so callers hold a *Tracer unconditionally:
//
//	ctx = trace.NewContext(ctx, t)
//	span := trace.FromContext(ctx).Begin(trace.ScopePass, "reduce", parent)
//	defer span.End("")
//
// Levels nest: session events are clear and evaluate, key adds every
// keystroke, pass adds the evaluator passes.
package trace
