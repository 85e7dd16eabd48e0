package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Scenario describes one simulation run: a pool, its assets, funded
// accounts and an ordered list of operations to apply.
type Scenario struct {
	Name     string            `mapstructure:"name"`
	Pool     ScenarioPool      `mapstructure:"pool"`
	Tokens   []ScenarioToken   `mapstructure:"tokens"`
	Accounts []ScenarioAccount `mapstructure:"accounts"`
	Steps    []ScenarioStep    `mapstructure:"steps"`
}

// ScenarioPool holds the pool parameters of a scenario.
type ScenarioPool struct {
	Address      string `mapstructure:"address"`
	TickSpacing  int32  `mapstructure:"tick_spacing"`
	SqrtPriceX96 string `mapstructure:"sqrt_price_x96"`
}

// ScenarioToken holds one asset of a scenario; the first entry is token0.
type ScenarioToken struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Decimals uint8  `mapstructure:"decimals"`
}

// ScenarioAccount funds an address with initial balances of both assets.
type ScenarioAccount struct {
	Address  string `mapstructure:"address"`
	Balance0 string `mapstructure:"balance0"`
	Balance1 string `mapstructure:"balance1"`
}

// ScenarioStep is one operation. Op selects the fields that apply:
// "mint" uses owner, lower_tick, upper_tick and amount, "swap" uses
// zero_for_one, amount_in and recipient. Account pays for both.
type ScenarioStep struct {
	Op         string `mapstructure:"op"`
	Account    string `mapstructure:"account"`
	Owner      string `mapstructure:"owner"`
	LowerTick  int32  `mapstructure:"lower_tick"`
	UpperTick  int32  `mapstructure:"upper_tick"`
	Amount     string `mapstructure:"amount"`
	ZeroForOne bool   `mapstructure:"zero_for_one"`
	AmountIn   string `mapstructure:"amount_in"`
	Recipient  string `mapstructure:"recipient"`
}

// LoadScenario reads a scenario document (YAML, JSON or TOML).
func LoadScenario(path string) (Scenario, error) {
	if path == "" {
		return Scenario{}, fmt.Errorf("scenario path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	return scenario, nil
}
