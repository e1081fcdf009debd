// Package calculator implements one pace calculator instance: transient
// field values, validation and derived values, synchronized into the shared
// form state store.
package calculator

import (
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"
	"github.com/verte-zerg/pacecalc/internal/pace"
	"github.com/verte-zerg/pacecalc/internal/registry"
)

// Calculator is the per-instance view over the shared store.
type Calculator struct {
	id    model.InstanceID
	store registry.FormStore

	local  model.FormState
	fields map[model.Field]pace.FieldState
	errMsg string

	placeholder string
}

// New loads the current form state of id into a calculator.
func New(ctx context.Context, reg *registry.Registry, id model.InstanceID) *Calculator {
	c := &Calculator{
		id:          id,
		store:       reg.Store(),
		fields:      map[model.Field]pace.FieldState{},
		placeholder: pace.Placeholder,
	}
	c.Reload(ctx)
	return c
}

// SetPlaceholder changes the text shown when the total is undefined.
func (c *Calculator) SetPlaceholder(p string) {
	c.placeholder = p
}

// ID returns the instance id.
func (c *Calculator) ID() model.InstanceID {
	return c.id
}

// Reload replaces the local values with the stored record.
func (c *Calculator) Reload(ctx context.Context) {
	state, err := c.store.Get(ctx, c.id)
	if err != nil {
		logErrf("failed to load instance %d: %v\n", c.id, err)
	}
	c.local = state
}

// Edit validates raw input for field, updates the local value and the
// shared error message, then commits the field's local value to the store.
// A rejected edit keeps the last valid value, so the commit rewrites it.
func (c *Calculator) Edit(ctx context.Context, field model.Field, raw string) pace.FieldState {
	st := pace.Validate(field, raw)
	switch st.Kind {
	case pace.Empty, pace.Valid:
		c.setLocal(field, st)
		c.errMsg = ""
	case pace.Invalid:
		c.errMsg = st.Reason()
	}
	c.fields[field] = st
	c.commit(ctx, field)
	return st
}

func (c *Calculator) setLocal(field model.Field, st pace.FieldState) {
	switch field {
	case model.FieldPace:
		c.local.Pace = st.Pace
	case model.FieldSplitInterval:
		c.local.SplitInterval = st.Count
	case model.FieldDistance:
		c.local.Distance = st.Count
	}
}

func (c *Calculator) commit(ctx context.Context, field model.Field) {
	local := c.local
	err := c.store.Update(ctx, c.id, func(s *model.FormState) {
		switch field {
		case model.FieldPace:
			s.Pace = local.Pace
		case model.FieldSplitInterval:
			s.SplitInterval = local.SplitInterval
		case model.FieldDistance:
			s.Distance = local.Distance
		}
	})
	if err != nil {
		logErrf("failed to save %s for instance %d: %v\n", field, c.id, err)
	}
}

// EditLabel sets the free-text label. Labels are not validated and do not
// touch the error message.
func (c *Calculator) EditLabel(ctx context.Context, label string) {
	c.local.Label = label
	if err := c.store.Update(ctx, c.id, func(s *model.FormState) {
		s.Label = label
	}); err != nil {
		logErrf("failed to save label for instance %d: %v\n", c.id, err)
	}
}

// ToggleSplits flips split table visibility and returns the new value.
func (c *Calculator) ToggleSplits(ctx context.Context) bool {
	c.local.ShowSplits = !c.local.ShowSplits
	show := c.local.ShowSplits
	if err := c.store.Update(ctx, c.id, func(s *model.FormState) {
		s.ShowSplits = show
	}); err != nil {
		logErrf("failed to save split visibility for instance %d: %v\n", c.id, err)
	}
	return show
}

// State returns the local field values.
func (c *Calculator) State() model.FormState {
	return c.local
}

// Field returns the validation state of the last edit of field.
func (c *Calculator) Field(field model.Field) pace.FieldState {
	return c.fields[field]
}

// Err returns the current error message, "" when none.
func (c *Calculator) Err() string {
	return c.errMsg
}

// TotalDuration returns the total time for the distance, if defined.
func (c *Calculator) TotalDuration() (time.Duration, bool) {
	return pace.Total(c.local.Pace, c.local.Distance)
}

// TotalText renders the total as MM:SS or the placeholder.
func (c *Calculator) TotalText() string {
	d, ok := c.TotalDuration()
	return pace.FormatTotal(d, ok, c.placeholder)
}

// Splits returns the split table for the current values.
func (c *Calculator) Splits() iter.Seq[model.Split] {
	return pace.Splits(c.local.Pace, c.local.SplitInterval, c.local.Distance)
}

// VisibleSplits is Splits when the table is shown and empty otherwise.
func (c *Calculator) VisibleSplits() iter.Seq[model.Split] {
	if !c.local.ShowSplits {
		return func(func(model.Split) bool) {}
	}
	return c.Splits()
}

// VisibleSplitCount is the number of rows VisibleSplits yields.
func (c *Calculator) VisibleSplitCount() int {
	if !c.local.ShowSplits {
		return 0
	}
	return pace.SplitCount(c.local.Pace, c.local.SplitInterval, c.local.Distance)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
