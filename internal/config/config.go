// Package config loads the game server configuration.
//
// Values come from three layers, later ones winning: compiled defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultStateKey is the key the serialized game state lives under.
const DefaultStateKey = "property-game-state"

// Config is the root configuration document.
type Config struct {
	Difficulty string  `yaml:"difficulty"`
	Balance    Balance `yaml:"balance"`
	Storage    Storage `yaml:"storage"`
	Server     Server  `yaml:"server"`
	Log        Log     `yaml:"log"`
}

// Storage selects the persistence collaborator.
type Storage struct {
	Driver      string `yaml:"driver"` // sqlite, redis, postgres, memory
	Path        string `yaml:"path"`
	RedisURL    string `yaml:"redis_url"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Key         string `yaml:"key"`
}

// Server holds host process settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Defaults returns a complete configuration with no file or env applied.
func Defaults() Config {
	return Config{
		Difficulty: "normal",
		Balance:    Default(),
		Storage: Storage{
			Driver: "sqlite",
			Path:   "data/landlord.db",
			Key:    DefaultStateKey,
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads path (if it exists) over the defaults and then applies env overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := Parse(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Parse decodes a YAML document into cfg. A difficulty preset named in the
// document replaces the balance before explicit balance keys are applied.
func Parse(data []byte, cfg *Config) error {
	var probe struct {
		Difficulty string `yaml:"difficulty"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if probe.Difficulty != "" {
		cfg.Difficulty = probe.Difficulty
		cfg.Balance = ForDifficulty(probe.Difficulty)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if mode := os.Getenv("DIFFICULTY"); mode != "" {
		cfg.Difficulty = mode
		cfg.Balance = ForDifficulty(mode)
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("STATE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getEnvFloat("STARTING_CASH"); v > 0 {
		cfg.Balance.StartingCash = v
	}
	if v := getEnvFloat("WIN_NET_WORTH"); v > 0 {
		cfg.Balance.WinNetWorth = v
	}
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return f
}
