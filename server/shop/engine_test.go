package shop

import (
	"errors"
	"io"
	"math"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"costumeshop/server/account"
	"costumeshop/server/catalog"
	"costumeshop/server/currency"
	"costumeshop/server/inventory"
	"costumeshop/server/metrics"
	"costumeshop/shared/game/types"
)

type EngineSuite struct {
	suite.Suite
	catalog *catalog.Registry
	metrics *metrics.Metrics
	engine  *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.catalog = catalog.NewDefault()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.engine = NewEngine(s.catalog,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *EngineSuite) costume(id string) types.CostumeDefinition {
	c, err := s.catalog.Lookup(id)
	s.Require().NoError(err)
	return c
}

func (s *EngineSuite) TestPurchaseSucceeds() {
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)
	red := s.costume("red-shirt")

	s.True(s.engine.CanPurchase(p, red))
	s.Require().NoError(s.engine.Purchase(p, red))

	s.Equal(int64(75), p.Balance())
	s.True(p.Owns("red-shirt"))
	s.Equal("red-shirt", p.Worn())
	s.True(p.Owns(types.DefaultCostumeID), "owned never shrinks")
	s.False(s.engine.CanPurchase(p, red))

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Purchases.WithLabelValues("ok")))
	s.Equal(25.0, testutil.ToFloat64(s.metrics.GoldSpent))
}

func (s *EngineSuite) TestPurchaseInsufficientFunds() {
	p := account.NewPlayer("alice", 10, types.DefaultCostumeID)
	red := s.costume("red-shirt")
	before := p.Snapshot()

	s.False(s.engine.CanPurchase(p, red))
	for i := 0; i < 2; i++ {
		err := s.engine.Purchase(p, red)
		s.Require().ErrorIs(err, currency.ErrInsufficientFunds)
		s.Equal(before, p.Snapshot())
	}
	s.Equal(int64(10), p.Balance())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Purchases.WithLabelValues("insufficient_funds")))
}

func (s *EngineSuite) TestPurchaseAlreadyOwned() {
	p := account.NewPlayer("alice", 500, types.DefaultCostumeID)
	red := s.costume("red-shirt")
	s.Require().NoError(s.engine.Purchase(p, red))
	s.Require().NoError(p.Wear(types.DefaultCostumeID))
	before := p.Snapshot()

	for i := 0; i < 2; i++ {
		err := s.engine.Purchase(p, red)
		s.Require().ErrorIs(err, inventory.ErrAlreadyOwned)
		s.Equal(before, p.Snapshot())
	}

	// the default costume is owned from the start
	err := s.engine.Purchase(p, s.costume(types.DefaultCostumeID))
	s.ErrorIs(err, inventory.ErrAlreadyOwned)
	s.Equal(before, p.Snapshot())
}

func (s *EngineSuite) TestCanPurchaseRejectsWorn() {
	// a worn costume that somehow is not in owned still cannot be bought
	p := account.NewPlayer("alice", 500, "mystery")
	s.False(s.engine.CanPurchase(p, types.CostumeDefinition{ID: "mystery", Price: 1}))
}

func (s *EngineSuite) TestLockedCostume() {
	p := account.NewPlayer("alice", 500, types.DefaultCostumeID)
	green := s.costume("green-shirt")

	s.False(s.engine.CanPurchase(p, green))
	s.ErrorIs(s.engine.Purchase(p, green), ErrLocked)
	s.Equal(int64(500), p.Balance())

	s.engine.CompleteLevel(p)
	s.ErrorIs(s.engine.Purchase(p, green), ErrLocked)
	s.Equal(2, s.engine.CompleteLevel(p))

	s.True(s.engine.CanPurchase(p, green))
	s.Require().NoError(s.engine.Purchase(p, green))
	s.Equal(int64(425), p.Balance())
}

func (s *EngineSuite) TestAcquireFailureRollsBack() {
	s.engine.acquire = func(*inventory.Inventory, string) error {
		return errors.New("boom")
	}
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)
	before := p.Snapshot()

	err := s.engine.Purchase(p, s.costume("blue-shirt"))
	s.Require().ErrorIs(err, ErrTransactionFailed)
	s.Equal(before.Balance, p.Balance())
	s.Equal(before.Owned, p.Snapshot().Owned)
	s.Equal(types.DefaultCostumeID, p.Worn())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Purchases.WithLabelValues("failed")))
}

func (s *EngineSuite) TestWearFailureRollsBack() {
	// acquire reports success without adding the costume, so wear fails
	s.engine.acquire = func(*inventory.Inventory, string) error { return nil }
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)
	before := p.Snapshot()

	err := s.engine.Purchase(p, s.costume("red-shirt"))
	s.Require().ErrorIs(err, ErrTransactionFailed)
	s.ErrorContains(err, "wear")
	s.Equal(before.Balance, p.Balance())
	s.Equal(before.Owned, p.Snapshot().Owned)
	s.Equal(types.DefaultCostumeID, p.Worn())
}

func (s *EngineSuite) TestAcquireFailureLeavesNoStagedOwnership() {
	s.engine.acquire = func(inv *inventory.Inventory, id string) error {
		if err := inv.Acquire(id); err != nil {
			return err
		}
		return errors.New("boom after add")
	}
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)

	s.ErrorIs(s.engine.Purchase(p, s.costume("red-shirt")), ErrTransactionFailed)
	s.False(p.Owns("red-shirt"))
	s.Equal(int64(100), p.Balance())
}

func (s *EngineSuite) TestPurchaseByID() {
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)

	_, err := s.engine.PurchaseByID(p, "purple-shirt")
	s.ErrorIs(err, catalog.ErrUnknownCostumeID)

	c, err := s.engine.PurchaseByID(p, "blue-shirt")
	s.Require().NoError(err)
	s.Equal("Blue Shirt", c.DisplayName)
	s.Equal(int64(50), p.Balance())
}

func (s *EngineSuite) TestWear() {
	p := account.NewPlayer("alice", 100, types.DefaultCostumeID)
	s.Require().NoError(s.engine.Purchase(p, s.costume("red-shirt")))

	s.ErrorIs(s.engine.Wear(p, "blue-shirt"), inventory.ErrNotOwned)
	s.Equal("red-shirt", p.Worn())

	s.ErrorIs(s.engine.Wear(p, "nope"), catalog.ErrUnknownCostumeID)

	s.Require().NoError(s.engine.Wear(p, types.DefaultCostumeID))
	s.Equal(types.DefaultCostumeID, p.Worn())
	s.Equal(int64(75), p.Balance(), "wearing an owned costume is free")
}

func (s *EngineSuite) TestAward() {
	p := account.NewPlayer("alice", 0, types.DefaultCostumeID)
	s.Require().NoError(s.engine.Award(p, 30, "level"))
	s.Equal(int64(30), p.Balance())
	s.ErrorIs(s.engine.Award(p, -1, "cheat"), currency.ErrInvalidAmount)
	s.Equal(int64(30), p.Balance())
	s.Equal(30.0, testutil.ToFloat64(s.metrics.GoldAwarded.WithLabelValues("level")))

	s.ErrorIs(s.engine.Award(p, math.MaxInt64, "level"), currency.ErrInvalidAmount)
	s.Equal(int64(30), p.Balance())
	s.Equal(30.0, testutil.ToFloat64(s.metrics.GoldAwarded.WithLabelValues("level")))
}

// TestWearUnownedKeepsState covers a player owning gray and red trying blue.
func (s *EngineSuite) TestWearUnownedKeepsState() {
	p := account.NewPlayer("alice", 25, types.DefaultCostumeID)
	s.Require().NoError(s.engine.Purchase(p, s.costume("red-shirt")))

	err := p.Wear("blue-shirt")
	s.ErrorIs(err, inventory.ErrNotOwned)
	s.Equal("red-shirt", p.Worn())
}
