package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff     Level = iota // no tracing
	LevelSession              // evaluate/clear boundaries
	LevelKey                  // every keystroke
	LevelPass                 // evaluator passes
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelSession:
		return "session"
	case LevelKey:
		return "key"
	case LevelPass:
		return "pass"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "session":
		return LevelSession, nil
	case "key":
		return LevelKey, nil
	case "pass", "debug":
		return LevelPass, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|session|key|pass)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelSession:
		return scope <= ScopeSession
	case LevelKey:
		return scope <= ScopeKey
	case LevelPass:
		return true
	}
	return false
}
