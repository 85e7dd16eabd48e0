// Package tick keeps the per-boundary liquidity ledger and the bitmap
// index used to locate initialized boundaries during swaps.
package tick

import (
	"math/big"

	"tickpool/internal/pricemath"
)

// Info aggregates the liquidity referencing one boundary tick.
// LiquidityGross is the total across all positions touching the tick,
// LiquidityNet the signed amount added when the price crosses it rightward.
type Info struct {
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
}

// Registry is the ledger of boundary ticks keyed by tick index.
type Registry struct {
	ticks map[int32]*Info
}

func NewRegistry() *Registry {
	return &Registry{ticks: make(map[int32]*Info)}
}

// Update applies a signed liquidity delta at a boundary tick and reports
// whether the tick flipped between initialized and uninitialized. The
// upper flag picks the sign of the net contribution.
func (r *Registry) Update(tick int32, delta *big.Int, upper bool) (bool, error) {
	if tick < pricemath.MinTick || tick > pricemath.MaxTick {
		return false, pricemath.ErrTickRange
	}
	if delta == nil {
		delta = new(big.Int)
	}

	info, ok := r.ticks[tick]
	if !ok {
		info = &Info{LiquidityGross: new(big.Int), LiquidityNet: new(big.Int)}
		r.ticks[tick] = info
	}

	grossAfter, err := pricemath.AddLiquidityDelta(info.LiquidityGross, delta)
	if err != nil {
		return false, err
	}
	flipped := (grossAfter.Sign() == 0) != (info.LiquidityGross.Sign() == 0)
	info.LiquidityGross = grossAfter

	if upper {
		info.LiquidityNet = new(big.Int).Sub(info.LiquidityNet, delta)
	} else {
		info.LiquidityNet = new(big.Int).Add(info.LiquidityNet, delta)
	}
	return flipped, nil
}

// Cross returns the signed liquidity change to apply when the price moves
// across tick from left to right. Callers negate it for right-to-left
// crossings. Missing ticks contribute zero.
func (r *Registry) Cross(tick int32) *big.Int {
	if info, ok := r.ticks[tick]; ok {
		return new(big.Int).Set(info.LiquidityNet)
	}
	return new(big.Int)
}

// Get returns a copy of the entry at tick.
func (r *Registry) Get(tick int32) (Info, bool) {
	info, ok := r.ticks[tick]
	if !ok {
		return Info{}, false
	}
	return Info{
		LiquidityGross: new(big.Int).Set(info.LiquidityGross),
		LiquidityNet:   new(big.Int).Set(info.LiquidityNet),
	}, true
}

// SetEntry overwrites the entry at tick with a copy of info.
func (r *Registry) SetEntry(tick int32, info Info) {
	r.ticks[tick] = &Info{
		LiquidityGross: cloneOrZero(info.LiquidityGross),
		LiquidityNet:   cloneOrZero(info.LiquidityNet),
	}
}

// Delete removes the entry at tick.
func (r *Registry) Delete(tick int32) {
	delete(r.ticks, tick)
}

// Entries returns a copy of every entry keyed by tick index.
func (r *Registry) Entries() map[int32]Info {
	out := make(map[int32]Info, len(r.ticks))
	for tick, info := range r.ticks {
		out[tick] = Info{
			LiquidityGross: new(big.Int).Set(info.LiquidityGross),
			LiquidityNet:   new(big.Int).Set(info.LiquidityNet),
		}
	}
	return out
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
