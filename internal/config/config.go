// Package config loads the CLI and ladder runner's configuration: logging,
// the static-data directory, an optional database URL for battlelog, and
// default search-policy parameters. It follows the reference server's
// viper-backed YAML-plus-env-override pattern.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig controls the zap logger built in cmd/battlesim.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig points at the directory holding species.json, moves.json, and
// learnsets.json.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig carries the optional Postgres connection string battlelog
// uses. An empty URL disables persistence entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// SearchConfig holds default search-policy parameters for the CLI and
// ladder runner.
type SearchConfig struct {
	MinimaxDepth    int `mapstructure:"minimaxDepth"`
	MCTSSimulations int `mapstructure:"mctsSimulations"`
}

// Config is the fully-resolved configuration tree.
type Config struct {
	Logging  LoggingConfig   `mapstructure:"logging"`
	Data     DataConfig      `mapstructure:"data"`
	Database DatabaseConfig  `mapstructure:"database"`
	Search   SearchConfig    `mapstructure:"search"`
}

// envPrefix is the prefix viper requires on every environment override, e.g.
// BATTLESIM_DATABASE_URL overrides database.url.
const envPrefix = "BATTLESIM"

// Load reads path (default config/battlesim.yaml) as YAML, applies
// BATTLESIM_-prefixed environment overrides, fills defaults for anything
// left unset, and unmarshals into a Config.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	vp.SetDefault("logging.level", "info")
	vp.SetDefault("logging.format", "console")
	vp.SetDefault("data.dir", "testdata")
	vp.SetDefault("database.url", "")
	vp.SetDefault("search.minimaxDepth", 2)
	vp.SetDefault("search.mctsSimulations", 200)

	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
