package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tickpool/internal/config"
	"tickpool/internal/pricemath"
	"tickpool/internal/sim"
	"tickpool/internal/tick"
)

type tickQuote struct {
	Tick         int32  `json:"tick"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Price        string `json:"price"`
}

type priceQuote struct {
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Tick         int32  `json:"tick"`
	Price        string `json:"price"`
}

type tickTable struct {
	TickSpacing     int32  `json:"tick_spacing"`
	MinUsableTick   int32  `json:"min_usable_tick"`
	MaxUsableTick   int32  `json:"max_usable_tick"`
	UsableTicks     uint64 `json:"usable_ticks"`
	BitmapWords     int    `json:"bitmap_words"`
	MinSqrtPriceX96 string `json:"min_sqrt_price_x96"`
	MaxSqrtPriceX96 string `json:"max_sqrt_price_x96"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	quoted := false

	if cfg.Tick != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(cfg.Tick), 10, 32)
		if err != nil {
			return fmt.Errorf("parse tick: %w", err)
		}
		sqrtPrice, err := pricemath.SqrtPriceAtTick(int32(parsed))
		if err != nil {
			return err
		}
		if err := printQuote(tickQuote{
			Tick:         int32(parsed),
			SqrtPriceX96: sqrtPrice.String(),
			Price:        displayPrice(sqrtPrice),
		}); err != nil {
			return err
		}
		quoted = true
	}

	if cfg.SqrtPriceX96 != "" {
		sqrtPrice, err := sim.ParseAmount(cfg.SqrtPriceX96)
		if err != nil {
			return fmt.Errorf("parse sqrt price: %w", err)
		}
		atTick, err := pricemath.TickAtSqrtPrice(sqrtPrice)
		if err != nil {
			return err
		}
		if err := printQuote(priceQuote{
			SqrtPriceX96: sqrtPrice.String(),
			Tick:         atTick,
			Price:        displayPrice(sqrtPrice),
		}); err != nil {
			return err
		}
		quoted = true
	}

	if cfg.TickSpacing != 0 {
		table, err := usableTickTable(cfg.TickSpacing)
		if err != nil {
			return err
		}
		if err := printQuote(table); err != nil {
			return err
		}
		quoted = true
	}

	if !quoted {
		return fmt.Errorf("one of --tick, --sqrt-price-x96, or --tick-spacing is required")
	}

	return nil
}

func usableTickTable(spacing int32) (tickTable, error) {
	if spacing <= 0 {
		return tickTable{}, fmt.Errorf("tick spacing must be positive")
	}

	minUsable := (pricemath.MinTick / spacing) * spacing
	maxUsable := (pricemath.MaxTick / spacing) * spacing

	minSqrt, err := pricemath.SqrtPriceAtTick(minUsable)
	if err != nil {
		return tickTable{}, err
	}
	maxSqrt, err := pricemath.SqrtPriceAtTick(maxUsable)
	if err != nil {
		return tickTable{}, err
	}

	minWord, _ := tick.WordPos(minUsable / spacing)
	maxWord, _ := tick.WordPos(maxUsable / spacing)

	return tickTable{
		TickSpacing:     spacing,
		MinUsableTick:   minUsable,
		MaxUsableTick:   maxUsable,
		UsableTicks:     uint64((maxUsable-minUsable)/spacing) + 1,
		BitmapWords:     int(maxWord) - int(minWord) + 1,
		MinSqrtPriceX96: minSqrt.String(),
		MaxSqrtPriceX96: maxSqrt.String(),
	}, nil
}

func displayPrice(sqrtPriceX96 *big.Int) string {
	ratio := new(big.Float).SetPrec(256).SetInt(sqrtPriceX96)
	ratio.Quo(ratio, new(big.Float).SetPrec(256).SetInt(pricemath.Q96))
	ratio.Mul(ratio, ratio)
	return ratio.Text('g', 12)
}

func printQuote(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	fmt.Println(string(line))
	return nil
}
