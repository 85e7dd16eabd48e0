package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SimulateConfig holds configuration for the simulate command.
type SimulateConfig struct {
	Scenario     string
	Out          string
	StateFile    string
	StateEnabled bool
	PGDSN        string
	RunName      string
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadSimulate merges config file, environment variables, and flags into SimulateConfig.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("out", "./data/events.jsonl")
	v.SetDefault("state", "./data/run_state.json")
	v.SetDefault("state-enabled", true)
	v.SetDefault("batch-size", uint64(100))
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return SimulateConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return SimulateConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return SimulateConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := SimulateConfig{
		Scenario:     v.GetString("scenario"),
		Out:          v.GetString("out"),
		StateFile:    v.GetString("state"),
		StateEnabled: v.GetBool("state-enabled"),
		PGDSN:        v.GetString("pg-dsn"),
		RunName:      v.GetString("run-name"),
		BatchSize:    v.GetUint64("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
