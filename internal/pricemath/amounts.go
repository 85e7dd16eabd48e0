package pricemath

import (
	"errors"
	"math/big"
)

// Q96 is the fixed-point scale of sqrt prices: 2^96.
var Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

var (
	ErrInvalidPrice     = errors.New("sqrt price must be positive")
	ErrInvalidLiquidity = errors.New("liquidity must not be negative")
	ErrInvalidAmount    = errors.New("amount must not be negative")
)

// Amount0Delta returns the token0 amount covered by liquidity between two
// sqrt prices. roundUp selects the pool-favorable direction: up for amounts
// owed to the pool, down for amounts the pool pays out.
func Amount0Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if err := checkDeltaArgs(sqrtPriceAX96, sqrtPriceBX96, liquidity); err != nil {
		return nil, err
	}
	a, b := sqrtPriceAX96, sqrtPriceBX96
	if a.Cmp(b) > 0 {
		a, b = b, a
	}

	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(b, a)

	if roundUp {
		interim, err := MulDivRoundingUp(numerator1, numerator2, b)
		if err != nil {
			return nil, err
		}
		return DivRoundingUp(interim, a)
	}
	interim, err := MulDiv(numerator1, numerator2, b)
	if err != nil {
		return nil, err
	}
	return interim.Quo(interim, a), nil
}

// Amount1Delta returns the token1 amount covered by liquidity between two
// sqrt prices, with the same rounding contract as Amount0Delta.
func Amount1Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if err := checkDeltaArgs(sqrtPriceAX96, sqrtPriceBX96, liquidity); err != nil {
		return nil, err
	}
	a, b := sqrtPriceAX96, sqrtPriceBX96
	if a.Cmp(b) > 0 {
		a, b = b, a
	}

	diff := new(big.Int).Sub(b, a)
	if roundUp {
		return MulDivRoundingUp(liquidity, diff, Q96)
	}
	return MulDiv(liquidity, diff, Q96)
}

// NextSqrtPriceFromInput returns the sqrt price after the pool receives
// amountIn of the input asset at the given liquidity. Rounds so the pool
// never gives out more than the input pays for.
func NextSqrtPriceFromInput(sqrtPriceX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if liquidity == nil || liquidity.Sign() <= 0 {
		return nil, ErrInvalidLiquidity
	}
	if amountIn == nil || amountIn.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountIn)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountIn)
}

// Token0 in: price falls. next = liquidity*sqrtP / (liquidity + amount*sqrtP/2^96),
// computed as numerator1*sqrtP / (numerator1 + amount*sqrtP) with numerator1
// = liquidity << 96, rounded up.
func nextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountIn *big.Int) (*big.Int, error) {
	if amountIn.Sign() == 0 {
		return new(big.Int).Set(sqrtPriceX96), nil
	}
	numerator1 := new(big.Int).Lsh(liquidity, 96)
	product := new(big.Int).Mul(amountIn, sqrtPriceX96)
	denominator := new(big.Int).Add(numerator1, product)
	return MulDivRoundingUp(numerator1, sqrtPriceX96, denominator)
}

// Token1 in: price rises. next = sqrtP + (amount << 96) / liquidity, rounded down.
func nextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountIn *big.Int) (*big.Int, error) {
	quotient, err := MulDiv(amountIn, Q96, liquidity)
	if err != nil {
		return nil, err
	}
	return quotient.Add(quotient, sqrtPriceX96), nil
}

func checkDeltaArgs(sqrtPriceAX96, sqrtPriceBX96, liquidity *big.Int) error {
	if sqrtPriceAX96 == nil || sqrtPriceBX96 == nil || sqrtPriceAX96.Sign() <= 0 || sqrtPriceBX96.Sign() <= 0 {
		return ErrInvalidPrice
	}
	if liquidity == nil || liquidity.Sign() < 0 {
		return ErrInvalidLiquidity
	}
	return nil
}
