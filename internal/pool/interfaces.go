package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tickpool/internal/model"
)

// Asset is the token surface the pool settles against.
type Asset interface {
	BalanceOf(owner common.Address) *big.Int
	Transfer(from, to common.Address, amount *big.Int) error
}

// MintPayer supplies the tokens owed for a mint. The callback must
// transfer both owed amounts to the pool before returning.
type MintPayer interface {
	Address() common.Address
	PayMint(amount0, amount1 *big.Int, data []byte) error
}

// SwapPayer supplies the input tokens owed for a swap. Amounts are signed
// from the pool's point of view: positive is owed to the pool, negative
// has already been paid out.
type SwapPayer interface {
	Address() common.Address
	PaySwap(amount0, amount1 *big.Int, data []byte) error
}

// Recorder receives the events the pool emits.
type Recorder interface {
	Record(event model.PoolEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(model.PoolEvent) {}
