package pricemath

import "math/big"

// ComputeSwapStep advances the price from sqrtPriceCurrentX96 toward
// sqrtPriceTargetX96, consuming at most amountRemaining of the input asset
// at the given liquidity. It returns the price reached, the input consumed
// (rounded up) and the output produced (rounded down). With zero liquidity
// the price jumps to the target and both amounts are zero.
func ComputeSwapStep(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, amountRemaining *big.Int) (sqrtPriceNextX96, amountIn, amountOut *big.Int, err error) {
	if sqrtPriceCurrentX96 == nil || sqrtPriceTargetX96 == nil || sqrtPriceCurrentX96.Sign() <= 0 || sqrtPriceTargetX96.Sign() <= 0 {
		return nil, nil, nil, ErrInvalidPrice
	}
	if liquidity == nil || liquidity.Sign() < 0 {
		return nil, nil, nil, ErrInvalidLiquidity
	}
	if amountRemaining == nil || amountRemaining.Sign() < 0 {
		return nil, nil, nil, ErrInvalidAmount
	}

	zeroForOne := sqrtPriceCurrentX96.Cmp(sqrtPriceTargetX96) >= 0

	if zeroForOne {
		amountIn, err = Amount0Delta(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, true)
	} else {
		amountIn, err = Amount1Delta(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, true)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	if amountRemaining.Cmp(amountIn) >= 0 {
		sqrtPriceNextX96 = new(big.Int).Set(sqrtPriceTargetX96)
	} else {
		sqrtPriceNextX96, err = NextSqrtPriceFromInput(sqrtPriceCurrentX96, liquidity, amountRemaining, zeroForOne)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	reachedTarget := sqrtPriceNextX96.Cmp(sqrtPriceTargetX96) == 0

	if zeroForOne {
		if !reachedTarget {
			amountIn, err = Amount0Delta(sqrtPriceNextX96, sqrtPriceCurrentX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		amountOut, err = Amount1Delta(sqrtPriceNextX96, sqrtPriceCurrentX96, liquidity, false)
	} else {
		if !reachedTarget {
			amountIn, err = Amount1Delta(sqrtPriceCurrentX96, sqrtPriceNextX96, liquidity, true)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		amountOut, err = Amount0Delta(sqrtPriceCurrentX96, sqrtPriceNextX96, liquidity, false)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	return sqrtPriceNextX96, amountIn, amountOut, nil
}
