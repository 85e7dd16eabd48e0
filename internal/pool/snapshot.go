package pool

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"tickpool/internal/model"
	"tickpool/internal/tick"
)

// Snapshot captures the pool's full accounting state. The caller fills in
// asset identities; the pool only knows the Asset interface.
func (p *Pool) Snapshot() model.PoolState {
	state := model.PoolState{
		Pool:         p.address.Hex(),
		TickSpacing:  p.tickSpacing,
		SqrtPriceX96: p.sqrtPriceX96.String(),
		Tick:         p.tickCurrent,
		Liquidity:    p.liquidity.String(),
		EventSeq:     p.eventSeq,
		UpdatedAt:    p.timestamp(),
	}

	for tickIdx, info := range p.ticks.Entries() {
		state.Ticks = append(state.Ticks, model.TickState{
			Tick:           tickIdx,
			LiquidityGross: info.LiquidityGross.String(),
			LiquidityNet:   info.LiquidityNet.String(),
		})
	}
	sort.Slice(state.Ticks, func(i, j int) bool { return state.Ticks[i].Tick < state.Ticks[j].Tick })

	for pos, word := range p.bitmap.Words() {
		state.Words = append(state.Words, model.WordState{Pos: pos, Bits: hexutil.Encode(word.Bytes())})
	}
	sort.Slice(state.Words, func(i, j int) bool { return state.Words[i].Pos < state.Words[j].Pos })

	for _, pos := range p.positions.Entries() {
		state.Positions = append(state.Positions, model.PositionState{
			Owner:     pos.Owner.Hex(),
			LowerTick: pos.LowerTick,
			UpperTick: pos.UpperTick,
			Liquidity: pos.Liquidity.String(),
		})
	}
	sort.Slice(state.Positions, func(i, j int) bool {
		a, b := state.Positions[i], state.Positions[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		if a.LowerTick != b.LowerTick {
			return a.LowerTick < b.LowerTick
		}
		return a.UpperTick < b.UpperTick
	})

	return state
}

// Restore builds a pool from cfg and loads a previously captured state
// into it. The snapshot must describe a pool with the same tick spacing.
func Restore(cfg Config, state model.PoolState) (*Pool, error) {
	if state.TickSpacing != cfg.TickSpacing {
		return nil, fmt.Errorf("state tick spacing %d does not match pool %d", state.TickSpacing, cfg.TickSpacing)
	}

	p, err := New(cfg)
	if err != nil {
		return nil, err
	}

	price, err := parseBigInt(state.SqrtPriceX96)
	if err != nil {
		return nil, fmt.Errorf("state sqrt price: %w", err)
	}
	liquidity, err := parseBigInt(state.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("state liquidity: %w", err)
	}
	p.sqrtPriceX96 = price
	p.tickCurrent = state.Tick
	p.liquidity = liquidity
	p.eventSeq = state.EventSeq

	for _, ts := range state.Ticks {
		gross, err := parseBigInt(ts.LiquidityGross)
		if err != nil {
			return nil, fmt.Errorf("state tick %d gross: %w", ts.Tick, err)
		}
		net, err := parseBigInt(ts.LiquidityNet)
		if err != nil {
			return nil, fmt.Errorf("state tick %d net: %w", ts.Tick, err)
		}
		p.ticks.SetEntry(ts.Tick, tick.Info{LiquidityGross: gross, LiquidityNet: net})
	}

	for _, ws := range state.Words {
		raw, err := hexutil.Decode(ws.Bits)
		if err != nil {
			return nil, fmt.Errorf("state word %d: %w", ws.Pos, err)
		}
		if len(raw) > 32 {
			return nil, fmt.Errorf("state word %d: %d bytes exceeds word size", ws.Pos, len(raw))
		}
		p.bitmap.SetWord(ws.Pos, new(uint256.Int).SetBytes(raw))
	}

	for _, ps := range state.Positions {
		liq, err := parseBigInt(ps.Liquidity)
		if err != nil {
			return nil, fmt.Errorf("state position %s: %w", ps.Owner, err)
		}
		p.positions.SetLiquidity(common.HexToAddress(ps.Owner), ps.LowerTick, ps.UpperTick, liq)
	}

	return p, nil
}

func parseBigInt(value string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer %q", value)
	}
	return parsed, nil
}
