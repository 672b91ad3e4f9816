// Package app assembles the fact bot from configuration.
package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/factbot/core/config"
	coredatabase "github.com/m3rciful/factbot/core/database"
)

// Fact table sources.
const (
	SourceBuiltin  = "builtin"
	SourceDatabase = "database"
)

// FactsConfig selects where the fact table comes from and how facts are drawn.
type FactsConfig struct {
	Source string `yaml:"source" envconfig:"FACTS_SOURCE"`
	// Seed upserts the built-in table into the database at startup.
	Seed bool `yaml:"seed" envconfig:"FACTS_SEED"`
	// RandSeed makes fact selection reproducible; 0 is non-deterministic.
	RandSeed uint64 `yaml:"rand_seed" envconfig:"FACTS_RAND_SEED"`
}

// Config is the full bot configuration: the shared core sections plus the
// database and fact catalog settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Facts    FactsConfig         `yaml:"facts"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file at path, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if c.Database.Enabled() {
		c.Database.Normalize()
	}

	src := strings.ToLower(strings.TrimSpace(c.Facts.Source))
	switch src {
	case "":
		src = SourceBuiltin
	case SourceBuiltin, SourceDatabase:
	default:
		return fmt.Errorf("invalid facts.source %q; allowed: builtin, database", c.Facts.Source)
	}
	c.Facts.Source = src

	if !c.Database.Enabled() {
		if src == SourceDatabase {
			return fmt.Errorf("facts.source 'database' requires database.host")
		}
		if c.Facts.Seed {
			return fmt.Errorf("facts.seed requires database.host")
		}
	}
	return nil
}
