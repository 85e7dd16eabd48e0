package pool

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tickpool/internal/model"
	"tickpool/internal/pricemath"
)

// Mint adds amount liquidity for owner over [lowerTick, upperTick] and
// returns the token amounts the payer owed. The payer callback must
// transfer both amounts to the pool before returning; when the pool's
// balances do not grow by what is owed, every state change is rolled back
// and the mint fails with ErrInsufficientInputAmount.
func (p *Pool) Mint(payer MintPayer, owner common.Address, lowerTick, upperTick int32, amount *big.Int, data []byte) (*big.Int, *big.Int, error) {
	if err := p.lock(); err != nil {
		return nil, nil, err
	}
	defer p.unlock()

	if payer == nil {
		return nil, nil, fmt.Errorf("mint requires a payer")
	}
	if err := p.checkTicks(lowerTick, upperTick); err != nil {
		return nil, nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, ErrZeroLiquidity
	}

	priceLower, err := pricemath.SqrtPriceAtTick(lowerTick)
	if err != nil {
		return nil, nil, err
	}
	priceUpper, err := pricemath.SqrtPriceAtTick(upperTick)
	if err != nil {
		return nil, nil, err
	}

	amount0, err := pricemath.Amount0Delta(p.sqrtPriceX96, priceUpper, amount, true)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := pricemath.Amount1Delta(p.sqrtPriceX96, priceLower, amount, true)
	if err != nil {
		return nil, nil, err
	}

	journal := p.beginMintJournal(owner, lowerTick, upperTick)

	if err := p.applyMint(owner, lowerTick, upperTick, amount); err != nil {
		p.rollbackMint(journal)
		return nil, nil, err
	}

	balance0Before := p.token0.BalanceOf(p.address)
	balance1Before := p.token1.BalanceOf(p.address)

	callbackErr := payer.PayMint(amount0, amount1, data)
	received0 := new(big.Int).Sub(p.token0.BalanceOf(p.address), balance0Before)
	received1 := new(big.Int).Sub(p.token1.BalanceOf(p.address), balance1Before)

	if callbackErr != nil {
		p.refund(payer.Address(), received0, received1)
		p.rollbackMint(journal)
		return nil, nil, fmt.Errorf("mint callback: %w", callbackErr)
	}

	short0 := amount0.Sign() > 0 && received0.Cmp(amount0) < 0
	short1 := amount1.Sign() > 0 && received1.Cmp(amount1) < 0
	if short0 || short1 {
		p.refund(payer.Address(), received0, received1)
		p.rollbackMint(journal)
		if short0 {
			return nil, nil, fmt.Errorf("%w: amount0 requires %s, received %s", ErrInsufficientInputAmount, amount0, received0)
		}
		return nil, nil, fmt.Errorf("%w: amount1 requires %s, received %s", ErrInsufficientInputAmount, amount1, received1)
	}

	p.eventSeq++
	p.recorder.Record(model.PoolEvent{
		Sequence:  p.eventSeq,
		Pool:      p.address.Hex(),
		EventName: "Mint",
		Topic0:    p.mintTopic0,
		EmittedAt: p.timestamp(),
		Decoded: model.MintEventData{
			Sender:    payer.Address().Hex(),
			Owner:     owner.Hex(),
			TickLower: lowerTick,
			TickUpper: upperTick,
			Amount:    amount.String(),
			Amount0:   amount0.String(),
			Amount1:   amount1.String(),
		},
	})

	p.logger.Debug("mint applied",
		zap.String("owner", owner.Hex()),
		zap.Int32("lower_tick", lowerTick),
		zap.Int32("upper_tick", upperTick),
		zap.String("amount", amount.String()),
		zap.String("amount0", amount0.String()),
		zap.String("amount1", amount1.String()),
	)
	return amount0, amount1, nil
}

func (p *Pool) applyMint(owner common.Address, lowerTick, upperTick int32, amount *big.Int) error {
	flippedLower, err := p.ticks.Update(lowerTick, amount, false)
	if err != nil {
		return err
	}
	flippedUpper, err := p.ticks.Update(upperTick, amount, true)
	if err != nil {
		return err
	}

	if flippedLower {
		if err := p.bitmap.FlipTick(lowerTick, p.tickSpacing); err != nil {
			return err
		}
	}
	if flippedUpper {
		if err := p.bitmap.FlipTick(upperTick, p.tickSpacing); err != nil {
			return err
		}
	}

	if _, err := p.positions.Update(owner, lowerTick, upperTick, amount); err != nil {
		return err
	}

	next, err := pricemath.AddLiquidityDelta(p.liquidity, amount)
	if err != nil {
		return err
	}
	p.liquidity = next
	return nil
}
