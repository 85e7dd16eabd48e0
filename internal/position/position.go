// Package position tracks per-owner liquidity over tick ranges.
package position

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"tickpool/internal/pricemath"
)

// Position records the liquidity one owner holds over a tick range.
type Position struct {
	Owner     common.Address
	LowerTick int32
	UpperTick int32
	Liquidity *big.Int
}

// Key derives the ledger key for an owner and tick range. Ticks are
// packed big-endian in two's complement after the owner bytes.
func Key(owner common.Address, lowerTick, upperTick int32) common.Hash {
	buf := make([]byte, 28)
	copy(buf, owner.Bytes())
	binary.BigEndian.PutUint32(buf[20:], uint32(lowerTick))
	binary.BigEndian.PutUint32(buf[24:], uint32(upperTick))
	return crypto.Keccak256Hash(buf)
}

// Ledger stores positions keyed by owner and tick range.
type Ledger struct {
	positions map[common.Hash]*Position
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[common.Hash]*Position)}
}

// Update applies a signed liquidity delta to the owner's position over
// [lowerTick, upperTick], creating it when absent. It returns a copy of
// the position after the change.
func (l *Ledger) Update(owner common.Address, lowerTick, upperTick int32, delta *big.Int) (Position, error) {
	key := Key(owner, lowerTick, upperTick)
	pos, ok := l.positions[key]
	if !ok {
		pos = &Position{Owner: owner, LowerTick: lowerTick, UpperTick: upperTick, Liquidity: new(big.Int)}
	}

	next, err := pricemath.AddLiquidityDelta(pos.Liquidity, delta)
	if err != nil {
		return Position{}, err
	}
	pos.Liquidity = next
	l.positions[key] = pos
	return copyPosition(pos), nil
}

// Get returns a copy of the stored position.
func (l *Ledger) Get(owner common.Address, lowerTick, upperTick int32) (Position, bool) {
	pos, ok := l.positions[Key(owner, lowerTick, upperTick)]
	if !ok {
		return Position{}, false
	}
	return copyPosition(pos), true
}

// SetLiquidity overwrites the stored liquidity for the position, creating
// the entry when absent.
func (l *Ledger) SetLiquidity(owner common.Address, lowerTick, upperTick int32, liquidity *big.Int) {
	key := Key(owner, lowerTick, upperTick)
	value := new(big.Int)
	if liquidity != nil {
		value.Set(liquidity)
	}
	l.positions[key] = &Position{Owner: owner, LowerTick: lowerTick, UpperTick: upperTick, Liquidity: value}
}

// Delete removes the position for the owner and tick range.
func (l *Ledger) Delete(owner common.Address, lowerTick, upperTick int32) {
	delete(l.positions, Key(owner, lowerTick, upperTick))
}

// Entries returns a copy of every stored position.
func (l *Ledger) Entries() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, pos := range l.positions {
		out = append(out, copyPosition(pos))
	}
	return out
}

func copyPosition(pos *Position) Position {
	return Position{
		Owner:     pos.Owner,
		LowerTick: pos.LowerTick,
		UpperTick: pos.UpperTick,
		Liquidity: new(big.Int).Set(pos.Liquidity),
	}
}
