package pricemath

import (
	"errors"
	"math/big"
)

// MaxLiquidity bounds every liquidity quantity in the pool: 2^128 - 1.
var MaxLiquidity = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

var (
	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddLiquidityDelta applies a signed delta to an unsigned liquidity value.
func AddLiquidityDelta(liquidity, delta *big.Int) (*big.Int, error) {
	if liquidity == nil || liquidity.Sign() < 0 {
		return nil, ErrInvalidLiquidity
	}
	if delta == nil {
		return new(big.Int).Set(liquidity), nil
	}

	sum := new(big.Int).Add(liquidity, delta)
	if sum.Sign() < 0 {
		return nil, ErrLiquidityUnderflow
	}
	if sum.Cmp(MaxLiquidity) > 0 {
		return nil, ErrLiquidityOverflow
	}
	return sum, nil
}
