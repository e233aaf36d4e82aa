package currency

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Wallet holds a gold balance that never goes below zero.
// It is owned by a single player and relies on that player's lock.
type Wallet struct {
	balance int64
}

// NewWallet opens a wallet with a starting balance; negative values are clamped to zero.
func NewWallet(balance int64) *Wallet {
	if balance < 0 {
		balance = 0
	}
	return &Wallet{balance: balance}
}

func (w *Wallet) Balance() int64 { return w.balance }

func (w *Wallet) CanAfford(price int64) bool { return w.balance >= price }

// Credit adds amount to the balance. A credit that would overflow the
// balance is rejected and leaves it untouched.
func (w *Wallet) Credit(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: credit %d", ErrInvalidAmount, amount)
	}
	if amount > math.MaxInt64-w.balance {
		return fmt.Errorf("%w: credit %d overflows balance %d", ErrInvalidAmount, amount, w.balance)
	}
	w.balance += amount
	return nil
}

// Debit removes amount from the balance, leaving it untouched on failure.
func (w *Wallet) Debit(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: debit %d", ErrInvalidAmount, amount)
	}
	if amount > w.balance {
		return fmt.Errorf("%w: has %d, needs %d", ErrInsufficientFunds, w.balance, amount)
	}
	w.balance -= amount
	return nil
}
