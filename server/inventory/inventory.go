package inventory

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrAlreadyOwned = errors.New("costume already owned")
	ErrNotOwned     = errors.New("costume not owned")
)

// Inventory is the set of costumes a player owns plus the one being worn.
// The set only grows and always contains the worn costume.
type Inventory struct {
	owned map[string]struct{}
	worn  string
}

// New starts an inventory that owns and wears starting.
func New(starting string) *Inventory {
	return &Inventory{
		owned: map[string]struct{}{starting: {}},
		worn:  starting,
	}
}

// Restore rebuilds an inventory from saved state. worn is added to owned if missing.
func Restore(owned []string, worn string) (*Inventory, error) {
	if worn == "" {
		return nil, errors.New("restore inventory: empty worn costume")
	}
	inv := New(worn)
	for _, id := range owned {
		if id != "" {
			inv.owned[id] = struct{}{}
		}
	}
	return inv, nil
}

func (inv *Inventory) Owns(id string) bool {
	_, ok := inv.owned[id]
	return ok
}

func (inv *Inventory) Worn() string { return inv.worn }

// Owned returns the owned ids sorted, for stable output.
func (inv *Inventory) Owned() []string {
	out := make([]string, 0, len(inv.owned))
	for id := range inv.owned {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (inv *Inventory) Clone() *Inventory {
	owned := make(map[string]struct{}, len(inv.owned))
	for id := range inv.owned {
		owned[id] = struct{}{}
	}
	return &Inventory{owned: owned, worn: inv.worn}
}

func (inv *Inventory) Len() int { return len(inv.owned) }

func (inv *Inventory) Acquire(id string) error {
	if inv.Owns(id) {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, id)
	}
	inv.owned[id] = struct{}{}
	return nil
}

// Wear switches to an owned costume. Wearing is free.
func (inv *Inventory) Wear(id string) error {
	if !inv.Owns(id) {
		return fmt.Errorf("%w: %s", ErrNotOwned, id)
	}
	inv.worn = id
	return nil
}
