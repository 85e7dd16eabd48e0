package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tickpool/internal/model"
)

// Store provides Postgres persistence for pool events and snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertEvents inserts or updates pool events keyed by pool and sequence.
func (s *Store) UpsertEvents(ctx context.Context, events []model.PoolEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, event := range events {
		payload, err := json.Marshal(event.Decoded)
		if err != nil {
			return fmt.Errorf("marshal event %d payload: %w", event.Sequence, err)
		}
		batch.Queue(`
			INSERT INTO pool_events (
				pool_address, sequence, event_name, topic0, emitted_at, payload, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (pool_address, sequence)
			DO UPDATE SET
				event_name = EXCLUDED.event_name,
				topic0 = EXCLUDED.topic0,
				emitted_at = EXCLUDED.emitted_at,
				payload = EXCLUDED.payload
		`,
			event.Pool,
			int64(event.Sequence),
			event.EventName,
			event.Topic0,
			event.EmittedAt,
			payload,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolState inserts or updates the snapshot for one pool.
func (s *Store) UpsertPoolState(ctx context.Context, state model.PoolState) error {
	if state.Pool == "" {
		return fmt.Errorf("pool address required")
	}
	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal pool state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO pool_states (
			pool_address, tick_spacing, sqrt_price_x96, tick, liquidity, event_seq, state, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (pool_address)
		DO UPDATE SET
			tick_spacing = EXCLUDED.tick_spacing,
			sqrt_price_x96 = EXCLUDED.sqrt_price_x96,
			tick = EXCLUDED.tick,
			liquidity = EXCLUDED.liquidity,
			event_seq = EXCLUDED.event_seq,
			state = EXCLUDED.state,
			updated_at = now()
	`,
		state.Pool,
		state.TickSpacing,
		state.SqrtPriceX96,
		state.Tick,
		state.Liquidity,
		int64(state.EventSeq),
		snapshot,
	)
	return err
}

// LoadRunState returns the stored run state for a run name.
func (s *Store) LoadRunState(ctx context.Context, name string) (model.RunState, bool, error) {
	if name == "" {
		return model.RunState{}, false, fmt.Errorf("run name required")
	}
	var data []byte
	row := s.pool.QueryRow(ctx, `SELECT state FROM run_state WHERE name=$1`, name)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RunState{}, false, nil
		}
		return model.RunState{}, false, err
	}
	var state model.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.RunState{}, false, fmt.Errorf("decode run state: %w", err)
	}
	return state, true, nil
}

// SaveRunState upserts the run state for a run name.
func (s *Store) SaveRunState(ctx context.Context, name string, state model.RunState) error {
	if name == "" {
		return fmt.Errorf("run name required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO run_state (name, last_processed_step, state, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_step = EXCLUDED.last_processed_step,
			state = EXCLUDED.state,
			updated_at = now()
	`, name, int64(state.LastProcessedStep), data)
	return err
}
