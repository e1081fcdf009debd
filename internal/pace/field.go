package pace

import (
	"strings"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"
)

// Kind is the validation state of one input field.
type Kind int

const (
	Empty Kind = iota
	Valid
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// FieldState is the outcome of validating one edit. Pace is set for a valid
// pace edit, Count for a valid split interval or distance edit, Err for an
// invalid edit.
type FieldState struct {
	Kind  Kind
	Pace  time.Duration
	Count int
	Err   error
}

// Reason returns the user-facing error text, or "" when not invalid.
func (s FieldState) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Validate runs the field state machine on one raw input.
func Validate(field model.Field, raw string) FieldState {
	if strings.TrimSpace(raw) == "" {
		return FieldState{Kind: Empty}
	}
	if field == model.FieldPace {
		d, err := ParsePace(raw)
		if err != nil {
			return FieldState{Kind: Invalid, Err: err}
		}
		return FieldState{Kind: Valid, Pace: d}
	}
	n, err := ParseCount(field, raw)
	if err != nil {
		return FieldState{Kind: Invalid, Err: err}
	}
	return FieldState{Kind: Valid, Count: n}
}
