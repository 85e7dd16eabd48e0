package pricemath

import (
	"errors"
	"math/big"
	"testing"
)

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(big.NewInt(10), big.NewInt(10), big.NewInt(3))
	if err != nil {
		t.Fatalf("mul div: %v", err)
	}
	if got.Int64() != 33 {
		t.Fatalf("10*10/3 = %s, want 33", got)
	}

	got, err = MulDivRoundingUp(big.NewInt(10), big.NewInt(10), big.NewInt(3))
	if err != nil {
		t.Fatalf("mul div rounding up: %v", err)
	}
	if got.Int64() != 34 {
		t.Fatalf("ceil(10*10/3) = %s, want 34", got)
	}
}

func TestMulDivExact(t *testing.T) {
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)

	down, err := MulDiv(q96, q96, q96)
	if err != nil {
		t.Fatalf("mul div: %v", err)
	}
	up, err := MulDivRoundingUp(q96, q96, q96)
	if err != nil {
		t.Fatalf("mul div rounding up: %v", err)
	}
	if down.Cmp(q96) != 0 || up.Cmp(q96) != 0 {
		t.Fatalf("exact division disagrees: down %s up %s want %s", down, up, q96)
	}
}

func TestMulDivZeroDenominator(t *testing.T) {
	if _, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := MulDivRoundingUp(big.NewInt(1), big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if _, err := DivRoundingUp(big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}

func TestDivRoundingUp(t *testing.T) {
	got, err := DivRoundingUp(big.NewInt(10), big.NewInt(5))
	if err != nil {
		t.Fatalf("div rounding up: %v", err)
	}
	if got.Int64() != 2 {
		t.Fatalf("ceil(10/5) = %s, want 2", got)
	}

	got, err = DivRoundingUp(big.NewInt(11), big.NewInt(5))
	if err != nil {
		t.Fatalf("div rounding up: %v", err)
	}
	if got.Int64() != 3 {
		t.Fatalf("ceil(11/5) = %s, want 3", got)
	}
}
