// Package pool implements the accounting core of a concentrated liquidity
// pool: tick-indexed liquidity, Q64.96 sqrt prices and the mint and swap
// state transitions with callback settlement.
package pool

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tickpool/internal/position"
	"tickpool/internal/pricemath"
	"tickpool/internal/tick"
)

// Config describes a pool at construction time. The current tick is
// derived from the initial sqrt price.
type Config struct {
	Address      common.Address
	Token0       Asset
	Token1       Asset
	TickSpacing  int32
	SqrtPriceX96 *big.Int
	Recorder     Recorder
	Logger       *zap.Logger
	Now          func() time.Time
}

// Pool is the accounting state of one two-asset pool. A pool is owned by
// one goroutine at a time; a busy flag rejects overlapping operations,
// including entries from inside payer callbacks, with ErrReentrantCall.
type Pool struct {
	address     common.Address
	token0      Asset
	token1      Asset
	tickSpacing int32

	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time

	mintTopic0 string
	swapTopic0 string

	mu   sync.Mutex
	busy bool

	sqrtPriceX96 *big.Int
	tickCurrent  int32
	liquidity    *big.Int

	ticks     *tick.Registry
	bitmap    *tick.Bitmap
	positions *position.Ledger

	eventSeq uint64
}

func New(cfg Config) (*Pool, error) {
	if cfg.Token0 == nil || cfg.Token1 == nil {
		return nil, fmt.Errorf("pool requires both assets")
	}
	if cfg.TickSpacing <= 0 {
		return nil, fmt.Errorf("tick spacing must be positive, got %d", cfg.TickSpacing)
	}
	if cfg.SqrtPriceX96 == nil {
		return nil, fmt.Errorf("pool requires an initial sqrt price")
	}
	tickCurrent, err := pricemath.TickAtSqrtPrice(cfg.SqrtPriceX96)
	if err != nil {
		return nil, fmt.Errorf("initial sqrt price: %w", err)
	}

	mintTopic0, err := EventTopic0("Mint")
	if err != nil {
		return nil, err
	}
	swapTopic0, err := EventTopic0("Swap")
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Pool{
		address:      cfg.Address,
		token0:       cfg.Token0,
		token1:       cfg.Token1,
		tickSpacing:  cfg.TickSpacing,
		logger:       logger,
		recorder:     recorder,
		now:          now,
		mintTopic0:   mintTopic0,
		swapTopic0:   swapTopic0,
		sqrtPriceX96: new(big.Int).Set(cfg.SqrtPriceX96),
		tickCurrent:  tickCurrent,
		liquidity:    new(big.Int),
		ticks:        tick.NewRegistry(),
		bitmap:       tick.NewBitmap(),
		positions:    position.NewLedger(),
	}, nil
}

// Address returns the pool's settlement address.
func (p *Pool) Address() common.Address {
	return p.address
}

// TickSpacing returns the boundary alignment of the pool.
func (p *Pool) TickSpacing() int32 {
	return p.tickSpacing
}

// SqrtPriceX96 returns a copy of the current Q64.96 sqrt price.
func (p *Pool) SqrtPriceX96() *big.Int {
	return new(big.Int).Set(p.sqrtPriceX96)
}

// Tick returns the current tick.
func (p *Pool) Tick() int32 {
	return p.tickCurrent
}

// Liquidity returns a copy of the currently active liquidity.
func (p *Pool) Liquidity() *big.Int {
	return new(big.Int).Set(p.liquidity)
}

// Position returns a copy of the stored position for owner over the range.
func (p *Pool) Position(owner common.Address, lowerTick, upperTick int32) (position.Position, bool) {
	return p.positions.Get(owner, lowerTick, upperTick)
}

// TickInfo returns the boundary ledger entry at tickIdx.
func (p *Pool) TickInfo(tickIdx int32) (tick.Info, bool) {
	return p.ticks.Get(tickIdx)
}

func (p *Pool) checkTicks(lowerTick, upperTick int32) error {
	if lowerTick >= upperTick {
		return fmt.Errorf("%w: lower %d not below upper %d", ErrInvalidTickRange, lowerTick, upperTick)
	}
	if lowerTick < pricemath.MinTick || upperTick > pricemath.MaxTick {
		return fmt.Errorf("%w: outside [%d, %d]", ErrInvalidTickRange, pricemath.MinTick, pricemath.MaxTick)
	}
	if lowerTick%p.tickSpacing != 0 || upperTick%p.tickSpacing != 0 {
		return fmt.Errorf("%w: ticks must align to spacing %d", ErrInvalidTickRange, p.tickSpacing)
	}
	return nil
}

// lock marks the pool busy for the duration of one operation. The mutex
// only guards the flag and is never held across payer callbacks.
func (p *Pool) lock() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return ErrReentrantCall
	}
	p.busy = true
	return nil
}

func (p *Pool) unlock() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

func (p *Pool) timestamp() string {
	return p.now().UTC().Format(time.RFC3339Nano)
}

// refund returns whatever a failed settlement already delivered to the
// pool, so a rolled back operation leaves no stranded balances.
func (p *Pool) refund(to common.Address, received0, received1 *big.Int) {
	if received0 != nil && received0.Sign() > 0 {
		if err := p.token0.Transfer(p.address, to, received0); err != nil {
			p.logger.Error("refund failed", zap.Error(err))
		}
	}
	if received1 != nil && received1.Sign() > 0 {
		if err := p.token1.Transfer(p.address, to, received1); err != nil {
			p.logger.Error("refund failed", zap.Error(err))
		}
	}
}
