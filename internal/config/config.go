package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Estimation methods.
const (
	MethodRandom = "random" // Monte Carlo random-surfer walk
	MethodMarkov = "markov" // power iteration over the transition matrix
)

// Formats lists the output formats understood by the rank command.
var Formats = []string{"table", "plain", "json", "toml", "yaml"}

// Config holds all runtime configuration for a ranking session.
// Values are populated from .surfer.yaml, SURFER_* env vars, and CLI flags.
type Config struct {
	Damping       float64 `mapstructure:"damping"`
	Steps         int     `mapstructure:"steps"`
	Start         int     `mapstructure:"start"`
	Seed          uint64  `mapstructure:"seed"`
	Walkers       int     `mapstructure:"walkers"`
	Method        string  `mapstructure:"method"`
	Epsilon       float64 `mapstructure:"epsilon"`
	Format        string  `mapstructure:"format"`
	StorePath     string  `mapstructure:"store_path"`
	TelemetryPath string  `mapstructure:"telemetry_path"`
	Verbose       bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. The result is
// validated but never clamped.
func Load() (Config, error) {
	viper.SetDefault("damping", 0.9)
	viper.SetDefault("steps", 1000)
	viper.SetDefault("start", 0)
	viper.SetDefault("seed", 0)
	viper.SetDefault("walkers", 1)
	viper.SetDefault("method", MethodRandom)
	viper.SetDefault("epsilon", 0.0)
	viper.SetDefault("format", "table")
	viper.SetDefault("store_path", "")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the ranking pipeline cannot run with. Start is
// checked against the graph later, once N is known.
func (c Config) Validate() error {
	if !(c.Damping > 0 && c.Damping < 1) {
		return fmt.Errorf("config: damping %v outside (0, 1)", c.Damping)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps %d, want at least 1", c.Steps)
	}
	if c.Start < 0 {
		return fmt.Errorf("config: start node %d is negative", c.Start)
	}
	if c.Walkers < 1 {
		return fmt.Errorf("config: walkers %d, want at least 1", c.Walkers)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("config: epsilon %v is negative", c.Epsilon)
	}
	switch c.Method {
	case MethodRandom, MethodMarkov:
	default:
		return fmt.Errorf("config: unknown method %q (want %q or %q)", c.Method, MethodRandom, MethodMarkov)
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("config: unknown format %q", c.Format)
}
