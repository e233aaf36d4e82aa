// Package shop implements costume purchases and the shop view's selection state.
package shop

import (
	"errors"
	"fmt"
	"log/slog"

	"costumeshop/server/account"
	"costumeshop/server/catalog"
	"costumeshop/server/currency"
	"costumeshop/server/inventory"
	"costumeshop/server/metrics"
	"costumeshop/shared/game/types"
)

var (
	// ErrTransactionFailed means an invariant broke mid-purchase. The
	// purchase was rolled back; it is a defect, not a user error.
	ErrTransactionFailed = errors.New("transaction failed")
	ErrLocked            = errors.New("costume locked")
)

// Engine validates and applies purchases against a player's wallet and inventory.
type Engine struct {
	catalog *catalog.Registry
	logger  *slog.Logger
	metrics *metrics.Metrics

	// acquire is swapped in tests to exercise the rollback path.
	acquire func(inv *inventory.Inventory, id string) error
}

// Option configures an Engine.
type Option func(e *Engine)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records activity on m. Without it nothing is recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func NewEngine(cat *catalog.Registry, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  slog.Default(),
		acquire: (*inventory.Inventory).Acquire,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *catalog.Registry { return e.catalog }

// CanPurchase reports whether the buy action should be enabled for c.
// Purchase re-checks everything itself; this is only a hint for the view.
func (e *Engine) CanPurchase(p *account.Player, c types.CostumeDefinition) bool {
	ok := false
	p.View(func(s *account.State) {
		ok = !s.Inventory.Owns(c.ID) &&
			s.Inventory.Worn() != c.ID &&
			c.UnlockLevel <= s.LevelsCompleted &&
			s.Wallet.CanAfford(c.Price)
	})
	return ok
}

// Purchase debits the price, adds c to the inventory and wears it.
// Either all three happen or none do: the inventory changes are staged on
// a copy that replaces the player's inventory only once both succeed.
func (e *Engine) Purchase(p *account.Player, c types.CostumeDefinition) error {
	err := p.Do(func(s *account.State) error {
		if s.Inventory.Owns(c.ID) {
			return fmt.Errorf("%w: %s", inventory.ErrAlreadyOwned, c.ID)
		}
		if c.UnlockLevel > s.LevelsCompleted {
			return fmt.Errorf("%w: %s needs %d levels, has %d", ErrLocked, c.ID, c.UnlockLevel, s.LevelsCompleted)
		}
		if err := s.Wallet.Debit(c.Price); err != nil {
			return err
		}

		rollback := func(step string, err error) error {
			// refund; a credit of a just-debited amount cannot fail
			_ = s.Wallet.Credit(c.Price)
			e.logger.Error("SHOP: purchase rolled back",
				"player", p.Name(), "costume", c.ID, "step", step, "error", err)
			return fmt.Errorf("%w: %s %s: %v", ErrTransactionFailed, step, c.ID, err)
		}
		staged := s.Inventory.Clone()
		if err := e.acquire(staged, c.ID); err != nil {
			return rollback("acquire", err)
		}
		if err := staged.Wear(c.ID); err != nil {
			return rollback("wear", err)
		}
		s.Inventory = staged
		return nil
	})

	e.metrics.ObservePurchase(outcome(err), c.Price)
	if err != nil {
		e.logger.Debug("SHOP: purchase rejected", "player", p.Name(), "costume", c.ID, "error", err)
		return err
	}
	e.logger.Info("SHOP: purchase", "player", p.Name(), "costume", c.ID, "price", c.Price, "balance", p.Balance())
	return nil
}

// PurchaseByID looks the costume up in the catalog before purchasing it.
func (e *Engine) PurchaseByID(p *account.Player, id string) (types.CostumeDefinition, error) {
	c, err := e.catalog.Lookup(id)
	if err != nil {
		return types.CostumeDefinition{}, err
	}
	return c, e.Purchase(p, c)
}

// Wear switches the player to an owned catalog costume at no cost.
func (e *Engine) Wear(p *account.Player, id string) error {
	if !e.catalog.Contains(id) {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownCostumeID, id)
	}
	return p.Wear(id)
}

// Award credits gold earned through play.
func (e *Engine) Award(p *account.Player, amount int64, reason string) error {
	if err := p.Credit(amount); err != nil {
		return err
	}
	e.metrics.ObserveAward(reason, amount)
	e.logger.Info("SHOP: granted gold", "player", p.Name(), "amount", amount, "reason", reason, "balance", p.Balance())
	return nil
}

// CompleteLevel records a cleared level, which may unlock costumes.
func (e *Engine) CompleteLevel(p *account.Player) int {
	n := p.CompleteLevel()
	e.logger.Info("SHOP: level completed", "player", p.Name(), "levels", n)
	return n
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, inventory.ErrAlreadyOwned):
		return "already_owned"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, currency.ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "failed"
	}
}
