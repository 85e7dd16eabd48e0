package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	Tick         string
	SqrtPriceX96 string
	TickSpacing  int32
	LogLevel     string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return QuoteConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return QuoteConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return QuoteConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := QuoteConfig{
		Tick:         v.GetString("tick"),
		SqrtPriceX96: v.GetString("sqrt-price-x96"),
		TickSpacing:  int32(v.GetInt("tick-spacing")),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
