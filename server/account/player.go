// Package account owns per-player economy state and its persistence.
package account

import (
	"sync"
	"time"

	"costumeshop/server/currency"
	"costumeshop/server/inventory"
)

// State is the mutable part of a player. It is only reachable through Player.Do.
type State struct {
	Wallet          *currency.Wallet
	Inventory       *inventory.Inventory
	LevelsCompleted int
}

// Player aggregates a wallet and an inventory. Every mutation runs inside
// the player's lock so a purchase is never observed half-applied.
type Player struct {
	mu        sync.Mutex
	saveMu    sync.Mutex // held by Service.Save across snapshot and write
	name      string
	state     State
	updatedAt int64
}

// NewPlayer seeds a session player who owns and wears defaultCostume.
func NewPlayer(name string, startingGold int64, defaultCostume string) *Player {
	return &Player{
		name: name,
		state: State{
			Wallet:    currency.NewWallet(startingGold),
			Inventory: inventory.New(defaultCostume),
		},
		updatedAt: time.Now().Unix(),
	}
}

func (p *Player) Name() string { return p.name }

// Do runs fn with exclusive access to the player's state.
func (p *Player) Do(fn func(s *State) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := fn(&p.state); err != nil {
		return err
	}
	p.updatedAt = time.Now().Unix()
	return nil
}

// View runs fn under the lock without marking the player as updated.
func (p *Player) View(fn func(s *State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
}

func (p *Player) Balance() int64 {
	var b int64
	p.View(func(s *State) { b = s.Wallet.Balance() })
	return b
}

func (p *Player) Owns(id string) bool {
	var ok bool
	p.View(func(s *State) { ok = s.Inventory.Owns(id) })
	return ok
}

func (p *Player) Worn() string {
	var id string
	p.View(func(s *State) { id = s.Inventory.Worn() })
	return id
}

func (p *Player) LevelsCompleted() int {
	var n int
	p.View(func(s *State) { n = s.LevelsCompleted })
	return n
}

// Credit awards gold earned outside the shop.
func (p *Player) Credit(amount int64) error {
	return p.Do(func(s *State) error { return s.Wallet.Credit(amount) })
}

func (p *Player) Wear(id string) error {
	return p.Do(func(s *State) error { return s.Inventory.Wear(id) })
}

// CompleteLevel records a cleared level and returns the new total.
func (p *Player) CompleteLevel() int {
	var n int
	_ = p.Do(func(s *State) error {
		s.LevelsCompleted++
		n = s.LevelsCompleted
		return nil
	})
	return n
}
