package sim

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tickpool/internal/config"
	"tickpool/internal/ledger"
	"tickpool/internal/model"
	"tickpool/internal/pool"
	"tickpool/internal/storage"
	"tickpool/internal/storage/postgres"
)

// RunConfig holds runtime settings for one scenario run.
type RunConfig struct {
	RunName      string
	BatchSize    uint64
	StatePath    string
	StateEnabled bool
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner applies scenario steps to a pool and streams the emitted events
// to storage. Steps are numbered from 1 in scenario order; run state
// tracks the last applied step so an interrupted run picks up where it
// stopped.
type Runner struct {
	cfg       RunConfig
	scenario  config.Scenario
	storage   storage.Storage
	store     *postgres.Store
	logger    *zap.Logger
	state     *StateStore
	collector *Collector

	pool     *pool.Pool
	poolAddr common.Address
	token0   *ledger.Token
	token1   *ledger.Token
	payers   map[string]*AccountPayer

	mintCount       uint64
	swapCount       uint64
	volume0         *big.Int
	volume1         *big.Int
	mintedLiquidity *big.Int
	firstSeq        uint64
	lastSeq         uint64
}

// NewRunner builds a Runner with its dependencies. store may be nil when
// Postgres mirroring is disabled.
func NewRunner(cfg RunConfig, scenario config.Scenario, storageSink storage.Storage, store *postgres.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:             cfg,
		scenario:        scenario,
		storage:         storageSink,
		store:           store,
		logger:          logger,
		state:           NewStateStore(cfg.StatePath, cfg.StateEnabled),
		collector:       NewCollector(),
		payers:          make(map[string]*AccountPayer),
		volume0:         new(big.Int),
		volume1:         new(big.Int),
		mintedLiquidity: new(big.Int),
	}
}

// Run executes the scenario.
func (r *Runner) Run(ctx context.Context) error {
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.scenario.Tokens) != 2 {
		return fmt.Errorf("scenario needs exactly two tokens, got %d", len(r.scenario.Tokens))
	}
	if len(r.scenario.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}

	poolAddr, err := ParseAddress(r.scenario.Pool.Address)
	if err != nil {
		return fmt.Errorf("pool address: %w", err)
	}
	r.poolAddr = poolAddr

	sqrtPrice, err := ParseAmount(r.scenario.Pool.SqrtPriceX96)
	if err != nil {
		return fmt.Errorf("pool sqrt price: %w", err)
	}

	r.token0 = ledger.NewToken(tokenMeta(r.scenario.Tokens[0]))
	r.token1 = ledger.NewToken(tokenMeta(r.scenario.Tokens[1]))

	state, resumed, err := r.loadState(ctx)
	if err != nil {
		return err
	}

	// A resumed run settles against the balances recorded in its state;
	// funding again would double the scenario's opening balances.
	for i, account := range r.scenario.Accounts {
		addr, err := ParseAddress(account.Address)
		if err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		if !resumed {
			balance0, err := ParseOptionalAmount(account.Balance0)
			if err != nil {
				return fmt.Errorf("account %s balance0: %w", account.Address, err)
			}
			balance1, err := ParseOptionalAmount(account.Balance1)
			if err != nil {
				return fmt.Errorf("account %s balance1: %w", account.Address, err)
			}
			if balance0.Sign() > 0 {
				if err := r.token0.Mint(addr, balance0); err != nil {
					return fmt.Errorf("fund account %s: %w", account.Address, err)
				}
			}
			if balance1.Sign() > 0 {
				if err := r.token1.Mint(addr, balance1); err != nil {
					return fmt.Errorf("fund account %s: %w", account.Address, err)
				}
			}
		}
		r.payers[strings.ToLower(addr.Hex())] = NewAccountPayer(addr, r.token0, r.token1, poolAddr)
	}

	if resumed {
		if err := r.restoreBalances(state); err != nil {
			return err
		}
	}

	poolCfg := pool.Config{
		Address:      poolAddr,
		Token0:       r.token0,
		Token1:       r.token1,
		TickSpacing:  r.scenario.Pool.TickSpacing,
		SqrtPriceX96: sqrtPrice,
		Recorder:     r.collector,
		Logger:       r.logger,
	}

	from := uint64(1)
	if resumed {
		restored, err := pool.Restore(poolCfg, state.State)
		if err != nil {
			return fmt.Errorf("restore pool: %w", err)
		}
		r.pool = restored
		from = state.LastProcessedStep + 1
		r.logger.Info("resume from state", zap.Uint64("last_processed", state.LastProcessedStep), zap.Uint64("from", from))
	} else {
		built, err := pool.New(poolCfg)
		if err != nil {
			return fmt.Errorf("build pool: %w", err)
		}
		r.pool = built
	}

	total := uint64(len(r.scenario.Steps))
	if from > total {
		r.logger.Info("nothing to apply", zap.Uint64("from", from), zap.Uint64("total", total))
		return nil
	}

	ranges, err := SplitSteps(from, total, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, stepRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for step := stepRange.From; step <= stepRange.To; step++ {
			if err := r.applyStep(r.scenario.Steps[step-1]); err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
		}

		if err := r.flush(ctx, stepRange); err != nil {
			return err
		}
	}

	if r.store != nil {
		snapshot := r.snapshot()
		if err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			return r.store.UpsertPoolState(ctx, snapshot)
		}); err != nil {
			return fmt.Errorf("store pool state: %w", err)
		}
	}

	r.logger.Info("run complete",
		zap.Uint64("steps", total-from+1),
		zap.Uint64("mints", r.mintCount),
		zap.Uint64("swaps", r.swapCount),
		zap.Int32("final_tick", r.pool.Tick()),
		zap.String("final_liquidity", r.pool.Liquidity().String()),
	)

	return nil
}

// Report summarizes the run so far.
func (r *Runner) Report() model.PoolReport {
	report := model.PoolReport{
		Pool:            r.poolAddr.Hex(),
		MintCount:       r.mintCount,
		SwapCount:       r.swapCount,
		Volume0:         r.volume0.String(),
		Volume1:         r.volume1.String(),
		MintedLiquidity: r.mintedLiquidity.String(),
		FirstSequence:   r.firstSeq,
		LastSequence:    r.lastSeq,
	}
	if r.pool != nil {
		report.FinalSqrtPriceX96 = r.pool.SqrtPriceX96().String()
		report.FinalTick = r.pool.Tick()
		report.FinalLiquidity = r.pool.Liquidity().String()
	}
	return report
}

func (r *Runner) loadState(ctx context.Context) (model.RunState, bool, error) {
	state, ok, err := r.state.Load()
	if err != nil {
		return model.RunState{}, false, err
	}

	if !ok && r.store != nil && r.cfg.RunName != "" {
		state, ok, err = r.store.LoadRunState(ctx, r.cfg.RunName)
		if err != nil {
			return model.RunState{}, false, fmt.Errorf("load run state: %w", err)
		}
	}

	if !ok {
		return model.RunState{}, false, nil
	}
	if state.State.Pool != "" && common.HexToAddress(state.State.Pool) != r.poolAddr {
		return model.RunState{}, false, fmt.Errorf("run state pool %s does not match scenario pool %s", state.State.Pool, r.poolAddr.Hex())
	}
	return state, true, nil
}

func (r *Runner) restoreBalances(state model.RunState) error {
	seen0, seen1 := false, false
	for _, balances := range state.Balances {
		var token *ledger.Token
		switch {
		case strings.EqualFold(balances.Token, r.token0.Meta().Address):
			token = r.token0
			seen0 = true
		case strings.EqualFold(balances.Token, r.token1.Meta().Address):
			token = r.token1
			seen1 = true
		default:
			return fmt.Errorf("run state balances reference unknown token %s", balances.Token)
		}
		for _, holder := range balances.Holders {
			owner, err := ParseAddress(holder.Owner)
			if err != nil {
				return fmt.Errorf("balance owner: %w", err)
			}
			amount, err := ParseAmount(holder.Amount)
			if err != nil {
				return fmt.Errorf("balance for %s: %w", holder.Owner, err)
			}
			token.SetBalance(owner, amount)
		}
	}
	if !seen0 || !seen1 {
		return fmt.Errorf("run state is missing token balances")
	}
	return nil
}

func (r *Runner) applyStep(step config.ScenarioStep) error {
	payerAddr, err := ParseAddress(step.Account)
	if err != nil {
		return fmt.Errorf("account: %w", err)
	}
	payer, ok := r.payers[strings.ToLower(payerAddr.Hex())]
	if !ok {
		return fmt.Errorf("account %s is not funded by the scenario", step.Account)
	}

	switch strings.ToLower(strings.TrimSpace(step.Op)) {
	case "mint":
		owner := payerAddr
		if step.Owner != "" {
			owner, err = ParseAddress(step.Owner)
			if err != nil {
				return fmt.Errorf("owner: %w", err)
			}
		}
		amount, err := ParseAmount(step.Amount)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		if _, _, err := r.pool.Mint(payer, owner, step.LowerTick, step.UpperTick, amount, nil); err != nil {
			return err
		}
		r.mintCount++
		r.mintedLiquidity.Add(r.mintedLiquidity, amount)
	case "swap":
		recipient := payerAddr
		if step.Recipient != "" {
			recipient, err = ParseAddress(step.Recipient)
			if err != nil {
				return fmt.Errorf("recipient: %w", err)
			}
		}
		amountIn, err := ParseAmount(step.AmountIn)
		if err != nil {
			return fmt.Errorf("amount_in: %w", err)
		}
		amount0, amount1, err := r.pool.Swap(payer, recipient, step.ZeroForOne, amountIn, nil)
		if err != nil {
			return err
		}
		r.swapCount++
		r.volume0.Add(r.volume0, new(big.Int).Abs(amount0))
		r.volume1.Add(r.volume1, new(big.Int).Abs(amount1))
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	return nil
}

func (r *Runner) flush(ctx context.Context, stepRange StepRange) error {
	events := r.collector.Drain()
	if len(events) > 0 {
		if r.firstSeq == 0 {
			r.firstSeq = events[0].Sequence
		}
		r.lastSeq = events[len(events)-1].Sequence

		if err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			if err := r.storage.PutEventBatch(events); err != nil {
				r.logger.Warn("store events failed", zap.Error(err), zap.Int("events", len(events)))
				return err
			}
			return nil
		}); err != nil {
			return fmt.Errorf("store events: %w", err)
		}

		if r.store != nil {
			if err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
				if err := r.store.UpsertEvents(ctx, events); err != nil {
					r.logger.Warn("upsert events failed", zap.Error(err), zap.Int("events", len(events)))
					return err
				}
				return nil
			}); err != nil {
				return fmt.Errorf("upsert events: %w", err)
			}
		}
	}

	runState := model.RunState{
		LastProcessedStep: stepRange.To,
		State:             r.snapshot(),
		Balances:          r.balances(),
	}
	if err := r.state.Save(runState); err != nil {
		return err
	}

	if r.store != nil && r.cfg.RunName != "" {
		if err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			return r.store.SaveRunState(ctx, r.cfg.RunName, runState)
		}); err != nil {
			return fmt.Errorf("save run state: %w", err)
		}
	}

	r.logger.Info("batch complete", zap.Int("events", len(events)), zap.Uint64("from", stepRange.From), zap.Uint64("to", stepRange.To))
	return nil
}

func (r *Runner) snapshot() model.PoolState {
	snapshot := r.pool.Snapshot()
	snapshot.Token0 = r.token0.Meta().Address
	snapshot.Token1 = r.token1.Meta().Address
	return snapshot
}

func (r *Runner) balances() []model.TokenBalances {
	out := make([]model.TokenBalances, 0, 2)
	for _, token := range []*ledger.Token{r.token0, r.token1} {
		held := token.Balances()
		holders := make([]model.AccountBalance, 0, len(held))
		for owner, amount := range held {
			holders = append(holders, model.AccountBalance{Owner: owner.Hex(), Amount: amount.String()})
		}
		sort.Slice(holders, func(i, j int) bool { return holders[i].Owner < holders[j].Owner })
		out = append(out, model.TokenBalances{Token: token.Meta().Address, Holders: holders})
	}
	return out
}

func tokenMeta(token config.ScenarioToken) model.TokenMeta {
	return model.TokenMeta{
		Address:  token.Address,
		Symbol:   token.Symbol,
		Name:     token.Name,
		Decimals: token.Decimals,
	}
}
