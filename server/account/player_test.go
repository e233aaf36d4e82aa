package account

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costumeshop/server/currency"
	"costumeshop/server/inventory"
)

func TestNewPlayerSeedsDefaultCostume(t *testing.T) {
	p := NewPlayer("alice", 100, "gray")
	assert.Equal(t, "alice", p.Name())
	assert.Equal(t, int64(100), p.Balance())
	assert.True(t, p.Owns("gray"))
	assert.Equal(t, "gray", p.Worn())
	assert.Equal(t, 0, p.LevelsCompleted())
}

func TestDoFailureLeavesUpdatedAtAlone(t *testing.T) {
	p := NewPlayer("alice", 10, "gray")
	p.updatedAt = 1

	err := p.Do(func(s *State) error { return s.Wallet.Debit(25) })
	require.ErrorIs(t, err, currency.ErrInsufficientFunds)
	assert.Equal(t, int64(1), p.updatedAt)
	assert.Equal(t, int64(10), p.Balance())

	require.NoError(t, p.Credit(5))
	assert.NotEqual(t, int64(1), p.updatedAt)
}

func TestWearAndLevels(t *testing.T) {
	p := NewPlayer("alice", 0, "gray")
	assert.ErrorIs(t, p.Wear("blue"), inventory.ErrNotOwned)
	assert.Equal(t, "gray", p.Worn())

	assert.Equal(t, 1, p.CompleteLevel())
	assert.Equal(t, 2, p.CompleteLevel())
	assert.Equal(t, 2, p.LevelsCompleted())
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	p := NewPlayer("alice", 100, "gray")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(func(s *State) error { return s.Wallet.Debit(3) })
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else if !errors.Is(err, currency.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 33, ok)
	assert.Equal(t, int64(1), p.Balance())
}

func TestSnapshotRestore(t *testing.T) {
	p := NewPlayer("alice", 75, "gray")
	require.NoError(t, p.Do(func(s *State) error {
		if err := s.Inventory.Acquire("red"); err != nil {
			return err
		}
		return s.Inventory.Wear("red")
	}))
	p.CompleteLevel()

	rec := p.Snapshot()
	assert.Equal(t, []string{"gray", "red"}, rec.Owned)
	assert.Equal(t, "red", rec.Worn)

	restored, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, rec, restored.Snapshot())
}

func TestRecordValidate(t *testing.T) {
	cases := map[string]Record{
		"no name":          {Balance: 1, Worn: "gray"},
		"negative balance": {Name: "a", Balance: -1, Worn: "gray"},
		"no worn":          {Name: "a"},
		"negative levels":  {Name: "a", Worn: "gray", LevelsCompleted: -2},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromRecord(&rec)
			assert.Error(t, err)
		})
	}
}
