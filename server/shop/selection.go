package shop

import (
	"errors"
	"fmt"

	"costumeshop/server/account"
	"costumeshop/server/catalog"
	"costumeshop/shared/game/types"
)

var ErrNothingSelected = errors.New("no costume selected")

// Selection tracks the highlighted catalog entry of one open shop view.
// It never changes the player; closing the view just drops it.
type Selection struct {
	catalog     *catalog.Registry
	player      *account.Player
	highlighted string
	selected    bool
}

// NewSelection opens on the worn costume when the catalog has it, otherwise
// on the first entry. An empty catalog starts unselected.
func NewSelection(cat *catalog.Registry, p *account.Player) *Selection {
	s := &Selection{catalog: cat, player: p}
	if worn := p.Worn(); cat.Contains(worn) {
		s.highlighted, s.selected = worn, true
	} else if first, ok := cat.First(); ok {
		s.highlighted, s.selected = first.ID, true
	}
	return s
}

// Select moves the highlight straight to id.
func (s *Selection) Select(id string) error {
	if !s.catalog.Contains(id) {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownCostumeID, id)
	}
	s.highlighted, s.selected = id, true
	return nil
}

func (s *Selection) Highlighted() (string, bool) {
	return s.highlighted, s.selected
}

// Costume returns the definition under the highlight.
func (s *Selection) Costume() (types.CostumeDefinition, error) {
	if !s.selected {
		return types.CostumeDefinition{}, ErrNothingSelected
	}
	return s.catalog.Lookup(s.highlighted)
}

// Status is recomputed from the player on every call.
func (s *Selection) Status() (types.CostumeStatus, error) {
	c, err := s.Costume()
	if err != nil {
		return 0, err
	}
	return StatusOf(s.player, c), nil
}

// StatusOf derives how c looks to p right now.
func StatusOf(p *account.Player, c types.CostumeDefinition) types.CostumeStatus {
	status := types.StatusUnaffordable
	p.View(func(st *account.State) {
		switch {
		case st.Inventory.Owns(c.ID):
			status = types.StatusOwned
		case c.UnlockLevel > st.LevelsCompleted:
			status = types.StatusLocked
		case st.Wallet.CanAfford(c.Price):
			status = types.StatusAffordable
		}
	})
	return status
}
