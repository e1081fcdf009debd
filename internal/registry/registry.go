// Package registry tracks the live calculator instances and owns the shared
// form state store.
package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/verte-zerg/pacecalc/internal/model"
)

// FormStore is the durable form state collection shared by all instances.
type FormStore interface {
	Create(ctx context.Context, id model.InstanceID, state model.FormState) error
	Update(ctx context.Context, id model.InstanceID, mutate func(*model.FormState)) error
	Remove(ctx context.Context, id model.InstanceID) error
	Get(ctx context.Context, id model.InstanceID) (model.FormState, error)
}

// Registry holds the ordered live instance ids and the id allocator.
// It is created once at startup and passed to everything that needs it.
type Registry struct {
	store    FormStore
	defaults model.FormState
	ids      []model.InstanceID
	next     model.InstanceID
}

// New returns a registry holding the first instance (id 0). defaults is the
// form state given to every new instance.
func New(ctx context.Context, st FormStore, defaults model.FormState) (*Registry, error) {
	r := &Registry{store: st, defaults: defaults}
	if _, err := r.Add(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Add allocates the next id and creates its store record. The id becomes
// live only once the record exists; a failed create still consumes the id.
func (r *Registry) Add(ctx context.Context) (model.InstanceID, error) {
	id := r.next
	r.next++
	if err := r.store.Create(ctx, id, r.defaults); err != nil {
		return id, fmt.Errorf("failed to add instance: %w", err)
	}
	r.ids = append(r.ids, id)
	return id, nil
}

// Remove deletes the store record of id and then drops it from the live
// list. On a store failure id stays live. Unknown ids are ignored.
func (r *Registry) Remove(ctx context.Context, id model.InstanceID) error {
	idx := slices.Index(r.ids, id)
	if idx < 0 {
		return nil
	}
	if err := r.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove instance: %w", err)
	}
	r.ids = slices.Delete(r.ids, idx, idx+1)
	return nil
}

// List returns the live ids in creation order.
func (r *Registry) List() []model.InstanceID {
	return slices.Clone(r.ids)
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Contains reports whether id is live.
func (r *Registry) Contains(id model.InstanceID) bool {
	return slices.Contains(r.ids, id)
}

// Next returns the id the next Add will allocate.
func (r *Registry) Next() model.InstanceID {
	return r.next
}

// Removable reports whether the presentation may offer deletion of id.
// The first instance is permanent.
func (r *Registry) Removable(id model.InstanceID) bool {
	return id != 0 && r.Contains(id)
}

// Store returns the shared form state store.
func (r *Registry) Store() FormStore {
	return r.store
}
