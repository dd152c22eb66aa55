package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"pokerarena-server/internal/util"
	"pokerarena-server/pkg/holdem"
)

// Config provides configuration for the poker arena server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	DisableLedger  bool   `yaml:"disableLedger" envconfig:"disable_ledger"`
	Log            struct {
		Level             string
		DisableAccessLogs bool `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Table struct {
		SmallBlind int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind   int `yaml:"bigBlind" envconfig:"big_blind"`
		MaxPlayers int `yaml:"maxPlayers" envconfig:"max_players"`
		MinBuyIn   int `yaml:"minBuyIn" envconfig:"min_buy_in"`
		MaxBuyIn   int `yaml:"maxBuyIn" envconfig:"max_buy_in"`
	}
	TurnTimeoutSeconds int `yaml:"turnTimeoutSeconds" envconfig:"turn_timeout_seconds"`
}

const defaultTurnTimeout = time.Second * 20

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// environment alone can configure the server.
func Load() error {
	config = Config{}

	configFile := util.Getenv("PA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("pa", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

// TableOptions returns the table options, falling back to defaults for any
// value the configuration leaves unset
func (c Config) TableOptions() holdem.Options {
	opts := holdem.DefaultOptions()

	if c.Table.SmallBlind > 0 {
		opts.SmallBlind = c.Table.SmallBlind
	}

	if c.Table.BigBlind > 0 {
		opts.BigBlind = c.Table.BigBlind
	}

	if c.Table.MaxPlayers > 0 {
		opts.MaxPlayers = c.Table.MaxPlayers
	}

	if c.Table.MinBuyIn > 0 {
		opts.MinBuyIn = c.Table.MinBuyIn
	}

	if c.Table.MaxBuyIn > 0 {
		opts.MaxBuyIn = c.Table.MaxBuyIn
	}

	return opts
}

// TurnTimeout returns the per-actor time budget
func (c Config) TurnTimeout() time.Duration {
	if c.TurnTimeoutSeconds > 0 {
		return time.Duration(c.TurnTimeoutSeconds) * time.Second
	}

	return defaultTurnTimeout
}
