package account

import (
	"errors"
	"fmt"

	"costumeshop/server/currency"
	"costumeshop/server/inventory"
)

// Record is the persisted form of a player. The catalog is not part of it.
type Record struct {
	Name            string   `json:"name"`
	Balance         int64    `json:"balance"`
	Owned           []string `json:"owned"`
	Worn            string   `json:"worn"`
	LevelsCompleted int      `json:"levelsCompleted"`
	LastUpdated     int64    `json:"lastUpdated"` // unix sec
}

func (r *Record) Validate() error {
	if r.Name == "" {
		return errors.New("record: empty name")
	}
	if r.Balance < 0 {
		return fmt.Errorf("record %s: negative balance %d", r.Name, r.Balance)
	}
	if r.Worn == "" {
		return fmt.Errorf("record %s: no worn costume", r.Name)
	}
	if r.LevelsCompleted < 0 {
		return fmt.Errorf("record %s: negative levels completed", r.Name)
	}
	return nil
}

// Snapshot captures the player's current state.
func (p *Player) Snapshot() *Record {
	rec := &Record{Name: p.name}
	p.View(func(s *State) {
		rec.Balance = s.Wallet.Balance()
		rec.Owned = s.Inventory.Owned()
		rec.Worn = s.Inventory.Worn()
		rec.LevelsCompleted = s.LevelsCompleted
		rec.LastUpdated = p.updatedAt
	})
	return rec
}

// FromRecord rebuilds a player from saved data.
func FromRecord(rec *Record) (*Player, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	inv, err := inventory.Restore(rec.Owned, rec.Worn)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.Name, err)
	}
	return &Player{
		name: rec.Name,
		state: State{
			Wallet:          currency.NewWallet(rec.Balance),
			Inventory:       inv,
			LevelsCompleted: rec.LevelsCompleted,
		},
		updatedAt: rec.LastUpdated,
	}, nil
}
