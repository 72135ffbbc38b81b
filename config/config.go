// Package config contains go-shard configuration definitions.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/shard"
)

const (
	// DefaultDataDir is used when neither config nor flags set the data directory.
	DefaultDataDir = "./shard-data"
	// DefaultSupply is the initial supply in whole tokens.
	DefaultSupply = 1_000_000_000

	dbFile = "state.sql"
)

// Config defines the top level configuration.
type Config struct {
	DataDir string        `mapstructure:"data-dir"`
	Logging LoggerConfig  `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Token   shard.Config  `mapstructure:"token"`
	Genesis shard.Genesis `mapstructure:"genesis"`
	Vesting []Vesting     `mapstructure:"vesting"`
}

// DBPath is the path to the sqlite database inside the data directory.
func (cfg *Config) DBPath() string {
	return filepath.Join(cfg.DataDir, dbFile)
}

// LoggerConfig sets the level and the encoder of the root logger.
type LoggerConfig struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

// MetricsConfig enables prometheus endpoint and optional push.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Push    string `mapstructure:"push"`
}

// Vesting is an allocation released by a vester created on init.
type Vesting struct {
	Recipient types.Address `mapstructure:"recipient"`
	Amount    *uint256.Int  `mapstructure:"amount"`
	// Begin, Cliff and End are seconds relative to the genesis block.
	Begin uint64 `mapstructure:"begin"`
	Cliff uint64 `mapstructure:"cliff"`
	End   uint64 `mapstructure:"end"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir: DefaultDataDir,
		Logging: LoggerConfig{
			Level:   "info",
			Encoder: "console",
		},
		Metrics: MetricsConfig{
			Port: 1010,
		},
		Token: shard.DefaultConfig(),
		Genesis: shard.Genesis{
			Supply: types.ExpandDecimals(DefaultSupply),
		},
	}
}

// Load applies config file at path (if not empty) and changed flags on top of the defaults.
// Changed flags "data-dir", "log-level" and "metrics" override the matching keys.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if flags != nil {
		for key, name := range map[string]string{
			"data-dir":        "data-dir",
			"logging.level":   "log-level",
			"metrics.enabled": "metrics",
		} {
			if flag := flags.Lookup(name); flag != nil && flag.Changed {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	conf := DefaultConfig()
	hook := mapstructure.ComposeDecodeHookFunc(
		AddressDecodeFunc(),
		AmountDecodeFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithErrorUnused(),
	}
	if err := v.Unmarshal(&conf, opts...); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &conf, nil
}

func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
