// Package config loads boardctl settings from config files and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (~/.config/boardctl/config.yaml or ./.boardctl.yaml), BOARDCTL_*
// environment variables, then flags bound by the CLI. A local .env file
// is loaded first so GITHUB_TOKEN can live next to the project.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to talk to one board.
type Config struct {
	Token         string        `mapstructure:"token"`
	Owner         string        `mapstructure:"owner"`
	ProjectNumber int           `mapstructure:"project"`
	IsOrg         bool          `mapstructure:"org"`
	MinScore      float64       `mapstructure:"min_score"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	// AliasesFile points at an optional yaml file of extra status
	// aliases layered over the built-in table.
	AliasesFile string `mapstructure:"aliases_file"`
}

// Load reads configuration into v and returns the resolved Config.
// Passing a fresh viper instance keeps tests isolated; the CLI passes
// its shared one so flags participate in precedence.
func Load(v *viper.Viper) (*Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	v.SetDefault("min_score", 0.3)
	v.SetDefault("cache_ttl", 5*time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "boardctl"))
	}
	// A project-local file wins over the home directory one.
	if _, err := os.Stat(".boardctl.yaml"); err == nil {
		v.SetConfigFile(".boardctl.yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; only real parse failures are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("BOARDCTL")
	v.AutomaticEnv()
	_ = v.BindEnv("token", "BOARDCTL_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("owner", "BOARDCTL_OWNER")
	_ = v.BindEnv("project", "BOARDCTL_PROJECT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the settings required for any board operation
// are present.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("no GitHub token: set GITHUB_TOKEN or token in config")
	}
	if c.Owner == "" {
		return fmt.Errorf("no board owner: set owner in config or BOARDCTL_OWNER")
	}
	if c.ProjectNumber <= 0 {
		return fmt.Errorf("no project number: set project in config or BOARDCTL_PROJECT")
	}
	return nil
}
