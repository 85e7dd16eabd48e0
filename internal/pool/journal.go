package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"tickpool/internal/tick"
)

// mintJournal captures everything a mint may touch so a failed settlement
// can be unwound exactly.
type mintJournal struct {
	owner     common.Address
	lowerTick int32
	upperTick int32

	liquidity *big.Int

	lowerInfo    tick.Info
	lowerExisted bool
	upperInfo    tick.Info
	upperExisted bool

	lowerWordPos int16
	lowerWord    *uint256.Int
	upperWordPos int16
	upperWord    *uint256.Int

	positionLiquidity *big.Int
	positionExisted   bool
}

func (p *Pool) beginMintJournal(owner common.Address, lowerTick, upperTick int32) *mintJournal {
	j := &mintJournal{
		owner:     owner,
		lowerTick: lowerTick,
		upperTick: upperTick,
		liquidity: new(big.Int).Set(p.liquidity),
	}
	j.lowerInfo, j.lowerExisted = p.ticks.Get(lowerTick)
	j.upperInfo, j.upperExisted = p.ticks.Get(upperTick)

	lowerPos, _ := tick.WordPos(lowerTick / p.tickSpacing)
	j.lowerWordPos = lowerPos
	j.lowerWord = p.bitmap.Word(lowerPos)
	upperPos, _ := tick.WordPos(upperTick / p.tickSpacing)
	j.upperWordPos = upperPos
	j.upperWord = p.bitmap.Word(upperPos)

	if pos, ok := p.positions.Get(owner, lowerTick, upperTick); ok {
		j.positionLiquidity = pos.Liquidity
		j.positionExisted = true
	}
	return j
}

func (p *Pool) rollbackMint(j *mintJournal) {
	p.liquidity = new(big.Int).Set(j.liquidity)

	if j.lowerExisted {
		p.ticks.SetEntry(j.lowerTick, j.lowerInfo)
	} else {
		p.ticks.Delete(j.lowerTick)
	}
	if j.upperExisted {
		p.ticks.SetEntry(j.upperTick, j.upperInfo)
	} else {
		p.ticks.Delete(j.upperTick)
	}

	p.bitmap.SetWord(j.lowerWordPos, j.lowerWord)
	p.bitmap.SetWord(j.upperWordPos, j.upperWord)

	if j.positionExisted {
		p.positions.SetLiquidity(j.owner, j.lowerTick, j.upperTick, j.positionLiquidity)
	} else {
		p.positions.Delete(j.owner, j.lowerTick, j.upperTick)
	}
}

// swapJournal captures the state a swap mutates. Crossing ticks only reads
// the boundary ledger, so slot0 and active liquidity are enough.
type swapJournal struct {
	sqrtPriceX96 *big.Int
	tickCurrent  int32
	liquidity    *big.Int
}

func (p *Pool) beginSwapJournal() *swapJournal {
	return &swapJournal{
		sqrtPriceX96: new(big.Int).Set(p.sqrtPriceX96),
		tickCurrent:  p.tickCurrent,
		liquidity:    new(big.Int).Set(p.liquidity),
	}
}

func (p *Pool) rollbackSwap(j *swapJournal) {
	p.sqrtPriceX96 = new(big.Int).Set(j.sqrtPriceX96)
	p.tickCurrent = j.tickCurrent
	p.liquidity = new(big.Int).Set(j.liquidity)
}
