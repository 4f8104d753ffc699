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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if HIRESTATS_CONFIG is set
//  3. env (prefix HIRESTATS_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HIRESTATS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: HIRESTATS_ADDR, HIRESTATS_PAGE_SIZE, ...
	// Map env keys like HIRESTATS_PAGE_SIZE -> page_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("HIRESTATS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "hirestats_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	}
	if cfg.MinJobPostings < 1 {
		return nil, fmt.Errorf("%w: min_job_postings must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
