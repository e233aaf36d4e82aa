package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"costumeshop/shared/game/types"
)

const DefaultStartingGold = 100

// Service hands out live players. Two sessions for the same name share
// one *Player, and therefore one lock.
type Service struct {
	store          Store
	startingGold   int64
	defaultCostume string
	logger         *slog.Logger

	mu   sync.Mutex
	live map[string]*liveEntry
}

type liveEntry struct {
	player *Player
	refs   int
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithStartingGold sets the balance of newly created players.
func WithStartingGold(gold int64) Option {
	return func(s *Service) {
		s.startingGold = gold
	}
}

// WithDefaultCostume sets the costume new players own and wear.
func WithDefaultCostume(id string) Option {
	return func(s *Service) {
		s.defaultCostume = id
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:          store,
		startingGold:   DefaultStartingGold,
		defaultCostume: types.DefaultCostumeID,
		logger:         slog.Default(),
		live:           make(map[string]*liveEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the live player for name, loading it from the store or
// creating a fresh one with starting gold and the default costume.
func (s *Service) Open(ctx context.Context, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty player name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live[name]; ok {
		e.refs++
		return e.player, nil
	}

	var p *Player
	rec, err := s.store.Load(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Info("ACCOUNT: creating new player", "player", name, "gold", s.startingGold)
		p = NewPlayer(name, s.startingGold, s.defaultCostume)
	case err != nil:
		return nil, fmt.Errorf("failed to load player: %w", err)
	default:
		p, err = FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to restore player: %w", err)
		}
	}
	s.live[name] = &liveEntry{player: p, refs: 1}
	return p, nil
}

// Save persists the player's current snapshot. Concurrent saves of one
// player are serialized, so the stored record is never older than the
// last snapshot written.
func (s *Service) Save(ctx context.Context, p *Player) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	if err := s.store.Save(ctx, p.Snapshot()); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// Release undoes one Open. The player is dropped from memory once no
// session holds it, so the next Open reloads it from the store.
func (s *Service) Release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live[name]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.live, name)
	}
}
