package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	doc := `
name: basic
pool:
  address: "0x9999999999999999999999999999999999999999"
  tick_spacing: 60
  sqrt_price_x96: "79228162514264337593543950336"
tokens:
  - address: "0x1000000000000000000000000000000000000000"
    symbol: "T0"
    decimals: 18
  - address: "0x2000000000000000000000000000000000000000"
    symbol: "T1"
    decimals: 6
accounts:
  - address: "0x1111111111111111111111111111111111111111"
    balance0: "1000000000"
    balance1: "1000000000"
steps:
  - op: mint
    account: "0x1111111111111111111111111111111111111111"
    lower_tick: -600
    upper_tick: 600
    amount: "1000"
  - op: swap
    account: "0x1111111111111111111111111111111111111111"
    zero_for_one: true
    amount_in: "500"
    recipient: "0x2222222222222222222222222222222222222222"
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	if scenario.Name != "basic" {
		t.Fatalf("name = %q, want basic", scenario.Name)
	}
	if scenario.Pool.TickSpacing != 60 {
		t.Fatalf("tick spacing = %d, want 60", scenario.Pool.TickSpacing)
	}
	if scenario.Pool.SqrtPriceX96 != "79228162514264337593543950336" {
		t.Fatalf("sqrt price = %q", scenario.Pool.SqrtPriceX96)
	}
	if len(scenario.Tokens) != 2 || scenario.Tokens[1].Decimals != 6 {
		t.Fatalf("tokens = %+v", scenario.Tokens)
	}
	if len(scenario.Accounts) != 1 || scenario.Accounts[0].Balance1 != "1000000000" {
		t.Fatalf("accounts = %+v", scenario.Accounts)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(scenario.Steps))
	}
	if scenario.Steps[0].Op != "mint" || scenario.Steps[0].LowerTick != -600 {
		t.Fatalf("first step = %+v", scenario.Steps[0])
	}
	if scenario.Steps[1].Op != "swap" || !scenario.Steps[1].ZeroForOne || scenario.Steps[1].AmountIn != "500" {
		t.Fatalf("second step = %+v", scenario.Steps[1])
	}
}

func TestLoadScenarioMissing(t *testing.T) {
	if _, err := LoadScenario(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
