// Package config loads the immutable ServerConfig the engine is built
// from (spec.md §3), via github.com/spf13/viper layering defaults, a
// YAML file, and EMBER_-prefixed environment variables — the same
// viper.Unmarshal + Validate two-step the proxy's cmd/gate package uses.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/embervale/ember/pkg/protocol"
)

// Config is the immutable server configuration. The Server keeps one
// copy, which every connection task reads without locking.
type Config struct {
	BindAddress          string        `mapstructure:"bind_address"`
	MaxPlayers           int           `mapstructure:"max_players"`
	MOTD                 string        `mapstructure:"motd"`
	OnlineMode           bool          `mapstructure:"online_mode"`
	CompressionThreshold int           `mapstructure:"compression_threshold"` // <0 disables compression
	ConnectionTimeout    time.Duration `mapstructure:"connection_timeout"`
	ViewDistance         int           `mapstructure:"view_distance"`
	SimulationDistance   int           `mapstructure:"simulation_distance"`
	Favicon              string        `mapstructure:"favicon"` // pre-encoded base64 PNG data URL, or ""
	Debug                bool          `mapstructure:"debug"`
}

// CompressionEnabled reports whether CompressionThreshold designates an
// active threshold (spec.md's `None` vs `Some(t)`).
func (c Config) CompressionEnabled() bool {
	return c.CompressionThreshold >= 0
}

// Default returns the built-in defaults. Most values follow vanilla
// server.properties (20 max players, compression threshold 256, view and
// simulation distance 10); the keys use snake_case names such as
// max_players rather than vanilla's hyphenated names.
func Default() Config {
	return Config{
		BindAddress:          "0.0.0.0:25565",
		MaxPlayers:           20,
		MOTD:                 "An Ember Server",
		OnlineMode:           false,
		CompressionThreshold: 256,
		ConnectionTimeout:    30 * time.Second,
		ViewDistance:         10,
		SimulationDistance:   10,
		Favicon:              "",
		Debug:                false,
	}
}

// registerDefaults seeds viper with Default()'s values so a partial
// ember.yaml or partial env-var set still resolves a complete Config.
func registerDefaults(v *viper.Viper, d Config) {
	v.SetDefault("bind_address", d.BindAddress)
	v.SetDefault("max_players", d.MaxPlayers)
	v.SetDefault("motd", d.MOTD)
	v.SetDefault("online_mode", d.OnlineMode)
	v.SetDefault("compression_threshold", d.CompressionThreshold)
	v.SetDefault("connection_timeout", d.ConnectionTimeout)
	v.SetDefault("view_distance", d.ViewDistance)
	v.SetDefault("simulation_distance", d.SimulationDistance)
	v.SetDefault("favicon", d.Favicon)
	v.SetDefault("debug", d.Debug)
}

// Load builds a Config from (in ascending precedence) built-in defaults,
// the YAML file at configPath (if it exists), and EMBER_-prefixed
// environment variables.
func Load(configPath string) (Config, error) {
	v := viper.New()
	registerDefaults(v, Default())

	v.SetEnvPrefix("EMBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the structural invariants a malformed ember.yaml or
// environment override could otherwise violate before the engine starts.
func Validate(cfg *Config) error {
	if cfg.MaxPlayers <= 0 {
		return fmt.Errorf("max_players must be positive, got %d", cfg.MaxPlayers)
	}
	if _, _, err := net.SplitHostPort(cfg.BindAddress); err != nil {
		return fmt.Errorf("invalid bind_address %q: %w", cfg.BindAddress, err)
	}
	if cfg.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection_timeout must be positive, got %s", cfg.ConnectionTimeout)
	}
	if len(cfg.Favicon) > protocol.MaxStringLength {
		return fmt.Errorf("favicon data URL exceeds %d bytes", protocol.MaxStringLength)
	}
	return nil
}
