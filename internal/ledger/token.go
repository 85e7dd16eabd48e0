// Package ledger provides in-memory token balance accounting with the
// ERC20 surface the pool settles against.
package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"tickpool/internal/model"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must not be negative")
)

// Token is an in-memory fungible token ledger.
type Token struct {
	meta model.TokenMeta

	mu       sync.Mutex
	balances map[common.Address]*big.Int
}

func NewToken(meta model.TokenMeta) *Token {
	return &Token{meta: meta, balances: make(map[common.Address]*big.Int)}
}

// Meta returns the token metadata.
func (t *Token) Meta() model.TokenMeta {
	return t.meta
}

// Mint credits amount to owner.
func (t *Token) Mint(owner common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(owner, amount)
	return nil
}

// BalanceOf returns a copy of owner's balance.
func (t *Token) BalanceOf(owner common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bal, ok := t.balances[owner]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	bal := t.balances[from]
	if bal == nil || bal.Cmp(amount) < 0 {
		have := new(big.Int)
		if bal != nil {
			have.Set(bal)
		}
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, t.meta.Symbol, have, amount)
	}
	bal.Sub(bal, amount)
	t.credit(to, amount)
	return nil
}

// Balances returns a copy of every balance the ledger holds.
func (t *Token) Balances() map[common.Address]*big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[common.Address]*big.Int, len(t.balances))
	for owner, bal := range t.balances {
		out[owner] = new(big.Int).Set(bal)
	}
	return out
}

// SetBalance overwrites owner's balance; zero clears the entry.
func (t *Token) SetBalance(owner common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if amount == nil || amount.Sign() <= 0 {
		delete(t.balances, owner)
		return
	}
	t.balances[owner] = new(big.Int).Set(amount)
}

func (t *Token) credit(owner common.Address, amount *big.Int) {
	if bal, ok := t.balances[owner]; ok {
		bal.Add(bal, amount)
		return
	}
	t.balances[owner] = new(big.Int).Set(amount)
}
