// Package model defines shared data structures.
package model

import "time"

// InstanceID identifies one calculator instance. IDs are allocated
// monotonically and never reused.
type InstanceID int

// FormState is the durable record of one calculator instance.
type FormState struct {
	Pace          time.Duration
	SplitInterval int
	Distance      int
	ShowSplits    bool
	Label         string
}

// DefaultFormState returns the state of a freshly created instance.
func DefaultFormState() FormState {
	return FormState{ShowSplits: true}
}

// Split is one row of the split table.
type Split struct {
	Marker  int
	Elapsed time.Duration
}

// Field names a validated numeric input of an instance.
type Field int

const (
	FieldPace Field = iota
	FieldSplitInterval
	FieldDistance
)

// String returns the name used in validation messages.
func (f Field) String() string {
	switch f {
	case FieldPace:
		return "Pace"
	case FieldSplitInterval:
		return "Splits"
	case FieldDistance:
		return "Distance"
	default:
		return "Field"
	}
}

// Config defines calculator settings.
type Config struct {
	ShowSplits  bool
	Instances   int
	Placeholder string
}

// PlanInput holds the raw inputs of a headless calculation.
type PlanInput struct {
	Label    string
	Pace     string
	Splits   string
	Distance string
}
