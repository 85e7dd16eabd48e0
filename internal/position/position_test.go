package position

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"tickpool/internal/pricemath"
)

func TestLedgerUpdate(t *testing.T) {
	l := NewLedger()
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	pos, err := l.Update(owner, -600, 600, big.NewInt(1000))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if pos.Liquidity.Int64() != 1000 {
		t.Fatalf("liquidity = %s, want 1000", pos.Liquidity)
	}

	pos, err = l.Update(owner, -600, 600, big.NewInt(500))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if pos.Liquidity.Int64() != 1500 {
		t.Fatalf("liquidity = %s, want 1500", pos.Liquidity)
	}

	got, ok := l.Get(owner, -600, 600)
	if !ok {
		t.Fatal("position missing")
	}
	if got.Owner != owner || got.LowerTick != -600 || got.UpperTick != 600 {
		t.Fatalf("stored position = %+v", got)
	}
}

func TestLedgerUpdateUnderflow(t *testing.T) {
	l := NewLedger()
	owner := common.HexToAddress("0x2222222222222222222222222222222222222222")

	if _, err := l.Update(owner, 0, 60, big.NewInt(100)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := l.Update(owner, 0, 60, big.NewInt(-200)); !errors.Is(err, pricemath.ErrLiquidityUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}

	got, ok := l.Get(owner, 0, 60)
	if !ok || got.Liquidity.Int64() != 100 {
		t.Fatalf("position after failed update = %+v (%v), want liquidity 100", got, ok)
	}
}

func TestLedgerDistinctKeys(t *testing.T) {
	l := NewLedger()
	a := common.HexToAddress("0x3333333333333333333333333333333333333333")
	b := common.HexToAddress("0x4444444444444444444444444444444444444444")

	if _, err := l.Update(a, -60, 60, big.NewInt(1)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := l.Update(a, -120, 60, big.NewInt(2)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := l.Update(b, -60, 60, big.NewInt(3)); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(l.Entries()) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(l.Entries()))
	}
	got, _ := l.Get(a, -60, 60)
	if got.Liquidity.Int64() != 1 {
		t.Fatalf("position a[-60,60] = %s, want 1", got.Liquidity)
	}
}

func TestKeyPacking(t *testing.T) {
	owner := common.HexToAddress("0x5555555555555555555555555555555555555555")

	if Key(owner, -600, 600) != Key(owner, -600, 600) {
		t.Fatal("key not deterministic")
	}
	if Key(owner, -600, 600) == Key(owner, 600, -600) {
		t.Fatal("swapped ticks produced the same key")
	}
	if Key(owner, -1, 1) == Key(owner, 1, -1) {
		t.Fatal("sign flip produced the same key")
	}
}

func TestLedgerSetAndDelete(t *testing.T) {
	l := NewLedger()
	owner := common.HexToAddress("0x6666666666666666666666666666666666666666")

	l.SetLiquidity(owner, -10, 10, big.NewInt(42))
	got, ok := l.Get(owner, -10, 10)
	if !ok || got.Liquidity.Int64() != 42 {
		t.Fatalf("set readback = %+v (%v), want 42", got, ok)
	}

	l.Delete(owner, -10, 10)
	if _, ok := l.Get(owner, -10, 10); ok {
		t.Fatal("position survived delete")
	}
}
