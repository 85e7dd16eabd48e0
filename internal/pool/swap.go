package pool

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tickpool/internal/model"
	"tickpool/internal/pricemath"
)

type swapState struct {
	amountRemaining  *big.Int
	amountCalculated *big.Int
	sqrtPriceX96     *big.Int
	tick             int32
	liquidity        *big.Int
}

// Swap trades an exact input of one asset for the other, walking the price
// across initialized boundaries until the input is consumed, liquidity
// runs out or the price domain ends. zeroForOne sells asset 0 for asset 1.
// The returned amounts are signed from the pool's point of view: the input
// side is positive, the output side negative. The output is transferred to
// recipient before the payer callback runs; when the callback does not
// deliver the input, both the transfer and the state changes are unwound
// and the swap fails with ErrInsufficientInputAmount.
func (p *Pool) Swap(payer SwapPayer, recipient common.Address, zeroForOne bool, amountIn *big.Int, data []byte) (*big.Int, *big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, nil, err
	}
	defer p.unlock()

	if payer == nil {
		return nil, nil, fmt.Errorf("swap requires a payer")
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, nil, ErrInvalidAmountIn
	}

	var limit *big.Int
	if zeroForOne {
		limit = new(big.Int).Add(pricemath.MinSqrtRatio, big.NewInt(1))
	} else {
		limit = new(big.Int).Sub(pricemath.MaxSqrtRatio, big.NewInt(1))
	}

	state := swapState{
		amountRemaining:  new(big.Int).Set(amountIn),
		amountCalculated: new(big.Int),
		sqrtPriceX96:     new(big.Int).Set(p.sqrtPriceX96),
		tick:             p.tickCurrent,
		liquidity:        new(big.Int).Set(p.liquidity),
	}

	for state.amountRemaining.Sign() > 0 && state.sqrtPriceX96.Cmp(limit) != 0 {
		tickNext, initialized := p.bitmap.NextInitializedTickWithinOneWord(state.tick, p.tickSpacing, zeroForOne)
		if tickNext < pricemath.MinTick {
			tickNext = pricemath.MinTick
		} else if tickNext > pricemath.MaxTick {
			tickNext = pricemath.MaxTick
		}

		sqrtPriceNextTick, err := pricemath.SqrtPriceAtTick(tickNext)
		if err != nil {
			return nil, nil, err
		}

		target := sqrtPriceNextTick
		if zeroForOne {
			if target.Cmp(limit) < 0 {
				target = limit
			}
		} else if target.Cmp(limit) > 0 {
			target = limit
		}

		stepStartPrice := state.sqrtPriceX96
		sqrtPriceNext, amountInStep, amountOutStep, err := pricemath.ComputeSwapStep(state.sqrtPriceX96, target, state.liquidity, state.amountRemaining)
		if err != nil {
			return nil, nil, err
		}

		state.sqrtPriceX96 = sqrtPriceNext
		state.amountRemaining.Sub(state.amountRemaining, amountInStep)
		state.amountCalculated.Sub(state.amountCalculated, amountOutStep)

		if state.sqrtPriceX96.Cmp(sqrtPriceNextTick) == 0 {
			if initialized {
				net := p.ticks.Cross(tickNext)
				if zeroForOne {
					net.Neg(net)
				}
				state.liquidity, err = pricemath.AddLiquidityDelta(state.liquidity, net)
				if err != nil {
					return nil, nil, err
				}
			}
			if zeroForOne {
				state.tick = tickNext - 1
			} else {
				state.tick = tickNext
			}
		} else if state.sqrtPriceX96.Cmp(stepStartPrice) != 0 {
			state.tick, err = pricemath.TickAtSqrtPrice(state.sqrtPriceX96)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	var amount0, amount1 *big.Int
	if zeroForOne {
		amount0 = new(big.Int).Sub(amountIn, state.amountRemaining)
		amount1 = state.amountCalculated
	} else {
		amount1 = new(big.Int).Sub(amountIn, state.amountRemaining)
		amount0 = state.amountCalculated
	}

	journal := p.beginSwapJournal()
	p.sqrtPriceX96 = state.sqrtPriceX96
	p.tickCurrent = state.tick
	p.liquidity = state.liquidity

	assetOut, amountOut := p.token1, amount1
	if !zeroForOne {
		assetOut, amountOut = p.token0, amount0
	}
	if amountOut.Sign() < 0 {
		if err := assetOut.Transfer(p.address, recipient, new(big.Int).Neg(amountOut)); err != nil {
			p.rollbackSwap(journal)
			return nil, nil, fmt.Errorf("swap payout: %w", err)
		}
	}

	assetIn, owed := p.token0, amount0
	if !zeroForOne {
		assetIn, owed = p.token1, amount1
	}
	balanceBefore := assetIn.BalanceOf(p.address)

	callbackErr := payer.PaySwap(amount0, amount1, data)
	received := new(big.Int).Sub(assetIn.BalanceOf(p.address), balanceBefore)

	if callbackErr != nil {
		p.refundInput(payer.Address(), zeroForOne, received)
		p.clawbackOutput(assetOut, recipient, amountOut)
		p.rollbackSwap(journal)
		return nil, nil, fmt.Errorf("swap callback: %w", callbackErr)
	}

	if received.Cmp(owed) < 0 {
		p.refundInput(payer.Address(), zeroForOne, received)
		p.clawbackOutput(assetOut, recipient, amountOut)
		p.rollbackSwap(journal)
		return nil, nil, fmt.Errorf("%w: requires %s, received %s", ErrInsufficientInputAmount, owed, received)
	}

	p.eventSeq++
	p.recorder.Record(model.PoolEvent{
		Sequence:  p.eventSeq,
		Pool:      p.address.Hex(),
		EventName: "Swap",
		Topic0:    p.swapTopic0,
		EmittedAt: p.timestamp(),
		Decoded: model.SwapEventData{
			Sender:       payer.Address().Hex(),
			Recipient:    recipient.Hex(),
			Amount0:      amount0.String(),
			Amount1:      amount1.String(),
			SqrtPriceX96: p.sqrtPriceX96.String(),
			Liquidity:    p.liquidity.String(),
			Tick:         p.tickCurrent,
		},
	})

	p.logger.Debug("swap applied",
		zap.Bool("zero_for_one", zeroForOne),
		zap.String("amount0", amount0.String()),
		zap.String("amount1", amount1.String()),
		zap.String("sqrt_price_x96", p.sqrtPriceX96.String()),
		zap.Int32("tick", p.tickCurrent),
	)
	return amount0, amount1, nil
}

// clawbackOutput returns an already paid output to the pool while a failed
// swap is being unwound.
func (p *Pool) clawbackOutput(asset Asset, recipient common.Address, amountOut *big.Int) {
	if amountOut.Sign() >= 0 {
		return
	}
	if err := asset.Transfer(recipient, p.address, new(big.Int).Neg(amountOut)); err != nil {
		p.logger.Error("swap clawback failed", zap.Error(err))
	}
}

func (p *Pool) refundInput(to common.Address, zeroForOne bool, received *big.Int) {
	if zeroForOne {
		p.refund(to, received, nil)
		return
	}
	p.refund(to, nil, received)
}
