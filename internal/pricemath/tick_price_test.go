package pricemath

import (
	"errors"
	"math/big"
	"testing"
)

func TestSqrtPriceAtTickKnownValues(t *testing.T) {
	got, err := SqrtPriceAtTick(0)
	if err != nil {
		t.Fatalf("tick 0: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 96)
	if got.Cmp(want) != 0 {
		t.Fatalf("tick 0 mismatch: %s != %s", got, want)
	}

	got, err = SqrtPriceAtTick(MinTick)
	if err != nil {
		t.Fatalf("min tick: %v", err)
	}
	if got.Cmp(MinSqrtRatio) != 0 {
		t.Fatalf("min tick mismatch: %s != %s", got, MinSqrtRatio)
	}

	got, err = SqrtPriceAtTick(MaxTick)
	if err != nil {
		t.Fatalf("max tick: %v", err)
	}
	if got.Cmp(MaxSqrtRatio) != 0 {
		t.Fatalf("max tick mismatch: %s != %s", got, MaxSqrtRatio)
	}
}

func TestSqrtPriceAtTickOutOfRange(t *testing.T) {
	if _, err := SqrtPriceAtTick(MinTick - 1); !errors.Is(err, ErrTickRange) {
		t.Fatalf("expected range error below min, got %v", err)
	}
	if _, err := SqrtPriceAtTick(MaxTick + 1); !errors.Is(err, ErrTickRange) {
		t.Fatalf("expected range error above max, got %v", err)
	}
}

func TestSqrtPriceAtTickMonotonic(t *testing.T) {
	prev, err := SqrtPriceAtTick(MinTick)
	if err != nil {
		t.Fatalf("min tick: %v", err)
	}
	for tick := MinTick + 7919; tick <= MaxTick; tick += 7919 {
		cur, err := SqrtPriceAtTick(tick)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if cur.Cmp(prev) <= 0 {
			t.Fatalf("price not increasing at tick %d: %s <= %s", tick, cur, prev)
		}
		prev = cur
	}

	pairs := [][2]int32{{MinTick, MinTick + 1}, {-1, 0}, {0, 1}, {MaxTick - 1, MaxTick}}
	for _, pair := range pairs {
		lo, err := SqrtPriceAtTick(pair[0])
		if err != nil {
			t.Fatalf("tick %d: %v", pair[0], err)
		}
		hi, err := SqrtPriceAtTick(pair[1])
		if err != nil {
			t.Fatalf("tick %d: %v", pair[1], err)
		}
		if lo.Cmp(hi) >= 0 {
			t.Fatalf("adjacent ticks %d/%d not ordered: %s >= %s", pair[0], pair[1], lo, hi)
		}
	}
}

func TestTickAtSqrtPriceRoundTrip(t *testing.T) {
	ticks := []int32{MinTick, -887271, -123456, -600, -60, -1, 0, 1, 60, 600, 123456, 887271}
	for tick := int32(-880000); tick <= 880000; tick += 44000 {
		ticks = append(ticks, tick)
	}

	for _, tick := range ticks {
		price, err := SqrtPriceAtTick(tick)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		got, err := TickAtSqrtPrice(price)
		if err != nil {
			t.Fatalf("inverse at tick %d: %v", tick, err)
		}
		if got != tick {
			t.Fatalf("round trip mismatch: tick %d came back as %d", tick, got)
		}
	}
}

func TestTickAtSqrtPriceRoundsDown(t *testing.T) {
	price, err := SqrtPriceAtTick(100)
	if err != nil {
		t.Fatalf("tick 100: %v", err)
	}

	above := new(big.Int).Add(price, big.NewInt(1))
	got, err := TickAtSqrtPrice(above)
	if err != nil {
		t.Fatalf("price+1: %v", err)
	}
	if got != 100 {
		t.Fatalf("price just above tick 100 mapped to %d", got)
	}

	next, err := SqrtPriceAtTick(101)
	if err != nil {
		t.Fatalf("tick 101: %v", err)
	}
	below := new(big.Int).Sub(next, big.NewInt(1))
	got, err = TickAtSqrtPrice(below)
	if err != nil {
		t.Fatalf("next-1: %v", err)
	}
	if got != 100 {
		t.Fatalf("price just below tick 101 mapped to %d", got)
	}
}

func TestTickAtSqrtPriceOutOfRange(t *testing.T) {
	below := new(big.Int).Sub(MinSqrtRatio, big.NewInt(1))
	if _, err := TickAtSqrtPrice(below); !errors.Is(err, ErrSqrtPriceRange) {
		t.Fatalf("expected range error below min, got %v", err)
	}
	if _, err := TickAtSqrtPrice(MaxSqrtRatio); !errors.Is(err, ErrSqrtPriceRange) {
		t.Fatalf("expected range error at max, got %v", err)
	}
	if _, err := TickAtSqrtPrice(nil); !errors.Is(err, ErrSqrtPriceRange) {
		t.Fatalf("expected range error for nil, got %v", err)
	}
}
