package sim

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tickpool/internal/ledger"
)

// AccountPayer settles pool callbacks out of one funded account.
type AccountPayer struct {
	addr   common.Address
	token0 *ledger.Token
	token1 *ledger.Token
	pool   common.Address
}

func NewAccountPayer(addr common.Address, token0, token1 *ledger.Token, pool common.Address) *AccountPayer {
	return &AccountPayer{addr: addr, token0: token0, token1: token1, pool: pool}
}

// Address implements pool.MintPayer and pool.SwapPayer.
func (p *AccountPayer) Address() common.Address {
	return p.addr
}

// PayMint transfers both owed amounts to the pool.
func (p *AccountPayer) PayMint(amount0, amount1 *big.Int, _ []byte) error {
	if err := p.pay(p.token0, amount0); err != nil {
		return err
	}
	return p.pay(p.token1, amount1)
}

// PaySwap transfers the input side of a swap to the pool.
func (p *AccountPayer) PaySwap(amount0, amount1 *big.Int, _ []byte) error {
	if amount0 != nil && amount0.Sign() > 0 {
		return p.pay(p.token0, amount0)
	}
	if amount1 != nil && amount1.Sign() > 0 {
		return p.pay(p.token1, amount1)
	}
	return nil
}

func (p *AccountPayer) pay(token *ledger.Token, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	return token.Transfer(p.addr, p.pool, amount)
}
