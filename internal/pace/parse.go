// Package pace implements pace parsing, field validation and the values
// derived from a calculator's inputs.
package pace

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"
)

const maxPaceSeconds = int64(1<<63-1) / int64(time.Second)

// ParseError reports input text that does not match the field's grammar.
type ParseError struct {
	Field  model.Field
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == model.FieldPace {
		return "Pace error: " + e.Reason
	}
	return fmt.Sprintf("%s must be a positive number", e.Field)
}

// RangeError reports a value that parses but is not positive.
type RangeError struct {
	Field model.Field
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be greater than 0", e.Field)
}

// ParsePace parses "mm:ss" into a duration. Both parts must be unsigned
// integers; "00:00" is accepted.
func ParsePace(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &ParseError{Field: model.FieldPace, Reason: "Invalid format"}
	}
	minutes, err := parseUnsigned(parts[0])
	if err != nil {
		return 0, &ParseError{Field: model.FieldPace, Reason: "Invalid minutes"}
	}
	seconds, err := parseUnsigned(parts[1])
	if err != nil || seconds > uint64(maxPaceSeconds) {
		return 0, &ParseError{Field: model.FieldPace, Reason: "Invalid seconds"}
	}
	// Total must fit a time.Duration.
	if minutes > (uint64(maxPaceSeconds)-seconds)/60 {
		return 0, &ParseError{Field: model.FieldPace, Reason: "Invalid minutes"}
	}
	return time.Duration(minutes*60+seconds) * time.Second, nil
}

// ParseCount parses a positive meter count for the split interval or
// distance field.
func ParseCount(field model.Field, s string) (int, error) {
	v, err := parseUnsigned(s)
	if err != nil || v > uint64(maxInt) {
		return 0, &ParseError{Field: field}
	}
	if v == 0 {
		return 0, &RangeError{Field: field}
	}
	return int(v), nil
}

const maxInt = int(^uint(0) >> 1)

// parseUnsigned accepts decimal digits with an optional leading '+'.
// Surrounding whitespace is rejected.
func parseUnsigned(s string) (uint64, error) {
	digits := strings.TrimPrefix(s, "+")
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(digits, 10, 64)
}
