// Package catalog holds the ordered set of costumes offered by the shop.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"costumeshop/shared/game/types"
)

var (
	ErrDuplicateDefinition = errors.New("duplicate costume definition")
	ErrUnknownCostumeID    = errors.New("unknown costume id")
)

// Registry keeps costume definitions in registration order.
// It is built once at startup and handed to every component that needs it.
type Registry struct {
	mu    sync.RWMutex
	items []types.CostumeDefinition
	index map[string]int
}

func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// NewDefault returns a registry holding the built-in costume set.
func NewDefault() *Registry {
	r := New()
	for _, def := range types.ListCostumes() {
		// built-in ids are unique
		_ = r.Register(def)
	}
	return r
}

// Register appends def. A definition without an id gets one derived from its name.
func (r *Registry) Register(def types.CostumeDefinition) error {
	if def.ID == "" {
		def.ID = types.CostumeID(def.DisplayName)
	}
	if def.ID == "" {
		return fmt.Errorf("costume %q: empty id", def.DisplayName)
	}
	if def.Price < 0 {
		return fmt.Errorf("costume %s: negative price %d", def.ID, def.Price)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, def.ID)
	}
	r.index[def.ID] = len(r.items)
	r.items = append(r.items, def)
	return nil
}

// List returns a copy of all definitions in display order.
func (r *Registry) List() []types.CostumeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.CostumeDefinition, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Lookup(id string) (types.CostumeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return types.CostumeDefinition{}, fmt.Errorf("%w: %s", ErrUnknownCostumeID, id)
	}
	return r.items[i], nil
}

func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[id]
	return ok
}

// First returns the first registered definition, if any.
func (r *Registry) First() (types.CostumeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return types.CostumeDefinition{}, false
	}
	return r.items[0], true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
