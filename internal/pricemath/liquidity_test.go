package pricemath

import (
	"errors"
	"math/big"
	"testing"
)

func TestAddLiquidityDelta(t *testing.T) {
	got, err := AddLiquidityDelta(big.NewInt(0), big.NewInt(5))
	if err != nil {
		t.Fatalf("add delta: %v", err)
	}
	if got.Int64() != 5 {
		t.Fatalf("0+5 = %s, want 5", got)
	}

	got, err = AddLiquidityDelta(big.NewInt(5), big.NewInt(-5))
	if err != nil {
		t.Fatalf("add delta: %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("5-5 = %s, want 0", got)
	}

	got, err = AddLiquidityDelta(big.NewInt(7), nil)
	if err != nil {
		t.Fatalf("nil delta: %v", err)
	}
	if got.Int64() != 7 {
		t.Fatalf("nil delta changed liquidity to %s", got)
	}
}

func TestAddLiquidityDeltaBounds(t *testing.T) {
	if _, err := AddLiquidityDelta(big.NewInt(5), big.NewInt(-6)); !errors.Is(err, ErrLiquidityUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
	if _, err := AddLiquidityDelta(MaxLiquidity, big.NewInt(1)); !errors.Is(err, ErrLiquidityOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := AddLiquidityDelta(big.NewInt(-1), big.NewInt(1)); !errors.Is(err, ErrInvalidLiquidity) {
		t.Fatalf("expected invalid liquidity, got %v", err)
	}
}
