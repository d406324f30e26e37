package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names and prefix.
const (
	envPrefix     = "KMEANS_"
	envConfigPath = "KMEANS_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if KMEANS_CONFIG is set
//  3. env (prefix KMEANS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like KMEANS_MAX_ITERATIONS -> max_iterations (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// Lists decode element-wise onto existing slices, so a shorter file list
	// would keep trailing defaults.
	cfg.Centers = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cfg.Centers == nil {
		cfg.Centers = base.Centers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Mode != ModeDemo && c.Mode != ModeServe:
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidConfig, ModeDemo, ModeServe, c.Mode)
	case c.Mode == ModeServe && c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Clusters <= 0:
		return fmt.Errorf("%w: clusters must be positive", ErrInvalidConfig)
	case c.MaxClusters > 0 && c.Clusters > c.MaxClusters:
		return fmt.Errorf("%w: clusters exceeds max_clusters", ErrInvalidConfig)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: max_iterations must not be negative", ErrInvalidConfig)
	case c.PointsPerBlob <= 0:
		return fmt.Errorf("%w: points_per_blob must be positive", ErrInvalidConfig)
	case c.StdDev < 0:
		return fmt.Errorf("%w: std_dev must not be negative", ErrInvalidConfig)
	case len(c.Centers) == 0:
		return fmt.Errorf("%w: centers must not be empty", ErrInvalidConfig)
	}
	return nil
}
