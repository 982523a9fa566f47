// Package daemon manages the guild daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Recommend RecommendConfig `toml:"recommend"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls the collection store.
type StorageConfig struct {
	Dir      string `toml:"dir"`
	SeedDemo bool   `toml:"seed_demo"`
}

// RecommendConfig controls the generation call for worker recommendations.
type RecommendConfig struct {
	Endpoint            string  `toml:"endpoint"`
	Model               string  `toml:"model"`
	APIKey              string  `toml:"api_key"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := guildHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Storage: StorageConfig{
			Dir:      filepath.Join(homeDir, "data"),
			SeedDemo: true,
		},
		Recommend: RecommendConfig{
			Endpoint:            "http://127.0.0.1:11434",
			Model:               "llama3.2",
			TimeoutSeconds:      60,
			ConfidenceThreshold: 0.7,
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
	}
}

// LoadConfig reads config from ~/.guild/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(guildHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.guild/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(guildHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// guildHome returns the guild data directory.
func guildHome() string {
	if env := os.Getenv("GUILD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".guild")
}

// GuildHome is exported for use by other packages.
func GuildHome() string {
	return guildHome()
}
