package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ReportConfig holds configuration for the report command.
type ReportConfig struct {
	Input    string
	Out      string
	Errors   string
	Pool     string
	LogLevel string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ReportConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return ReportConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return ReportConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := ReportConfig{
		Input:    v.GetString("in"),
		Out:      v.GetString("out"),
		Errors:   v.GetString("errors"),
		Pool:     v.GetString("pool"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
