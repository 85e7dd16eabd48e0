package sim

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"tickpool/internal/model"
)

// reportAccumulator holds running totals for one pool's event stream.
type reportAccumulator struct {
	pool            string
	mintCount       uint64
	swapCount       uint64
	volume0         *big.Int
	volume1         *big.Int
	mintedLiquidity *big.Int
	firstSeq        uint64
	lastSeq         uint64
	finalSeq        uint64
	finalPrice      string
	finalLiquidity  string
	finalTick       int32
}

func newReportAccumulator(pool string) *reportAccumulator {
	return &reportAccumulator{
		pool:            pool,
		volume0:         big.NewInt(0),
		volume1:         big.NewInt(0),
		mintedLiquidity: big.NewInt(0),
	}
}

func (a *reportAccumulator) addEvent(record model.PoolEventRecord) error {
	if a.firstSeq == 0 || record.Sequence < a.firstSeq {
		a.firstSeq = record.Sequence
	}
	if record.Sequence > a.lastSeq {
		a.lastSeq = record.Sequence
	}

	switch strings.ToLower(record.EventName) {
	case "swap":
		var swap model.SwapEventData
		if err := json.Unmarshal(record.Decoded, &swap); err != nil {
			return fmt.Errorf("decode swap: %w", err)
		}
		return a.applySwap(record.Sequence, swap)
	case "mint":
		var mint model.MintEventData
		if err := json.Unmarshal(record.Decoded, &mint); err != nil {
			return fmt.Errorf("decode mint: %w", err)
		}
		return a.applyMint(mint)
	default:
		return nil
	}
}

func (a *reportAccumulator) applySwap(sequence uint64, swap model.SwapEventData) error {
	amount0, err := ParseOptionalAmount(swap.Amount0)
	if err != nil {
		return err
	}
	amount1, err := ParseOptionalAmount(swap.Amount1)
	if err != nil {
		return err
	}

	absAdd(a.volume0, amount0)
	absAdd(a.volume1, amount1)
	a.swapCount++

	if sequence >= a.finalSeq {
		a.finalSeq = sequence
		a.finalPrice = swap.SqrtPriceX96
		a.finalLiquidity = swap.Liquidity
		a.finalTick = swap.Tick
	}
	return nil
}

func (a *reportAccumulator) applyMint(mint model.MintEventData) error {
	amount, err := ParseOptionalAmount(mint.Amount)
	if err != nil {
		return err
	}
	a.mintedLiquidity.Add(a.mintedLiquidity, amount)
	a.mintCount++
	return nil
}

func (a *reportAccumulator) report() model.PoolReport {
	return model.PoolReport{
		Pool:              a.pool,
		MintCount:         a.mintCount,
		SwapCount:         a.swapCount,
		Volume0:           a.volume0.String(),
		Volume1:           a.volume1.String(),
		MintedLiquidity:   a.mintedLiquidity.String(),
		FinalSqrtPriceX96: a.finalPrice,
		FinalTick:         a.finalTick,
		FinalLiquidity:    a.finalLiquidity,
		FirstSequence:     a.firstSeq,
		LastSequence:      a.lastSeq,
	}
}

func absAdd(target *big.Int, value *big.Int) {
	if value == nil || target == nil {
		return
	}
	abs := new(big.Int).Abs(value)
	target.Add(target, abs)
}
