package tick

import (
	"errors"
	"math/big"
	"testing"

	"tickpool/internal/pricemath"
)

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry()

	flipped, err := r.Update(0, big.NewInt(1000), false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !flipped {
		t.Fatal("first update did not flip the tick")
	}

	flipped, err = r.Update(0, big.NewInt(500), false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if flipped {
		t.Fatal("second update flipped an initialized tick")
	}

	info, ok := r.Get(0)
	if !ok {
		t.Fatal("tick 0 missing after updates")
	}
	if info.LiquidityGross.Int64() != 1500 || info.LiquidityNet.Int64() != 1500 {
		t.Fatalf("tick 0 = gross %s net %s, want 1500/1500", info.LiquidityGross, info.LiquidityNet)
	}
}

func TestRegistryUpperLowerSigns(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Update(60, big.NewInt(1000), true); err != nil {
		t.Fatalf("upper update: %v", err)
	}
	info, ok := r.Get(60)
	if !ok {
		t.Fatal("tick 60 missing")
	}
	if info.LiquidityGross.Int64() != 1000 || info.LiquidityNet.Int64() != -1000 {
		t.Fatalf("upper tick = gross %s net %s, want 1000/-1000", info.LiquidityGross, info.LiquidityNet)
	}

	if _, err := r.Update(60, big.NewInt(1000), false); err != nil {
		t.Fatalf("lower update: %v", err)
	}
	info, _ = r.Get(60)
	if info.LiquidityGross.Int64() != 2000 || info.LiquidityNet.Sign() != 0 {
		t.Fatalf("mixed tick = gross %s net %s, want 2000/0", info.LiquidityGross, info.LiquidityNet)
	}
}

func TestRegistryFlipOff(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Update(-60, big.NewInt(1000), false); err != nil {
		t.Fatalf("add: %v", err)
	}
	flipped, err := r.Update(-60, big.NewInt(-1000), false)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !flipped {
		t.Fatal("removing all liquidity did not flip the tick")
	}

	info, ok := r.Get(-60)
	if !ok {
		t.Fatal("emptied tick should keep its entry")
	}
	if info.LiquidityGross.Sign() != 0 || info.LiquidityNet.Sign() != 0 {
		t.Fatalf("emptied tick = gross %s net %s, want 0/0", info.LiquidityGross, info.LiquidityNet)
	}
}

func TestRegistryUpdateErrors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Update(pricemath.MaxTick+1, big.NewInt(1), false); !errors.Is(err, pricemath.ErrTickRange) {
		t.Fatalf("expected tick range error, got %v", err)
	}
	if _, err := r.Update(0, big.NewInt(-1), false); !errors.Is(err, pricemath.ErrLiquidityUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
}

func TestRegistryCross(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Update(120, big.NewInt(700), true); err != nil {
		t.Fatalf("update: %v", err)
	}

	net := r.Cross(120)
	if net.Int64() != -700 {
		t.Fatalf("cross = %s, want -700", net)
	}
	if again := r.Cross(120); again.Cmp(net) != 0 {
		t.Fatalf("second cross = %s, want %s", again, net)
	}
	if missing := r.Cross(999); missing.Sign() != 0 {
		t.Fatalf("missing tick crossed with %s", missing)
	}
}

func TestRegistrySetEntryDelete(t *testing.T) {
	r := NewRegistry()
	r.SetEntry(30, Info{LiquidityGross: big.NewInt(10), LiquidityNet: big.NewInt(-10)})

	info, ok := r.Get(30)
	if !ok || info.LiquidityGross.Int64() != 10 || info.LiquidityNet.Int64() != -10 {
		t.Fatalf("set entry readback = %+v (%v)", info, ok)
	}

	r.Delete(30)
	if _, ok := r.Get(30); ok {
		t.Fatal("entry survived delete")
	}
	if entries := r.Entries(); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
