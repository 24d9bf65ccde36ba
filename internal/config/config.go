// Package config loads MathMaster settings from defaults, a YAML file,
// a .env file and MATHMASTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "MATHMASTER"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env         string `mapstructure:"env"`          // local, development or production
	DBPath      string `mapstructure:"db_path"`      // empty means the default data dir
	DatasetPath string `mapstructure:"dataset_path"` // empty means the embedded dataset
	Log         Log    `mapstructure:"log"`
	Game        Game   `mapstructure:"game"`
	Server      Server `mapstructure:"server"`
	Tutor       Tutor  `mapstructure:"tutor"`
}

// Log configures the zap logger.
type Log struct {
	File  string `mapstructure:"file"`  // TUI log file; empty means the default state dir
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// Game holds the tunable rules.
type Game struct {
	ClassicCount int `mapstructure:"classic_count"` // questions in a classic round
	BatchCount   int `mapstructure:"batch_count"`   // questions drawn for timed and elimination rounds
	TimeBudget   int `mapstructure:"time_budget"`   // time attack starting seconds
	TimeBonus    int `mapstructure:"time_bonus"`    // seconds per correct answer
	Lives        int `mapstructure:"lives"`         // sudden death lives
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Tutor selects the LLM used for explanations. An empty provider
// disables the feature unless a well-known API key variable is set.
type Tutor struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("db_path", "")
	v.SetDefault("dataset_path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("game.classic_count", 5)
	v.SetDefault("game.batch_count", 20)
	v.SetDefault("game.time_budget", 60)
	v.SetDefault("game.time_bonus", 3)
	v.SetDefault("game.lives", 3)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("tutor.provider", "")
	v.SetDefault("tutor.model", "")
	v.SetDefault("tutor.api_key", "")
	v.SetDefault("tutor.base_url", "")
	v.SetDefault("tutor.timeout", "30s")
}

// Load reads configuration. path names an explicit config file; when
// empty, config.yaml is looked up in ./config and the user config dir.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects rule values the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Game.ClassicCount < 1:
		return fmt.Errorf("game.classic_count must be positive, got %d", c.Game.ClassicCount)
	case c.Game.BatchCount < 1:
		return fmt.Errorf("game.batch_count must be positive, got %d", c.Game.BatchCount)
	case c.Game.TimeBudget < 1:
		return fmt.Errorf("game.time_budget must be positive, got %d", c.Game.TimeBudget)
	case c.Game.TimeBonus < 0:
		return fmt.Errorf("game.time_bonus must not be negative, got %d", c.Game.TimeBonus)
	case c.Game.Lives < 1:
		return fmt.Errorf("game.lives must be positive, got %d", c.Game.Lives)
	}
	return nil
}

// LogFile returns the TUI log path, defaulting to
// $XDG_STATE_HOME/mathmaster/mathmaster.log.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "mathmaster", "mathmaster.log"), nil
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mathmaster"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mathmaster"), nil
}
