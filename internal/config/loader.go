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

// Environment variable names.
const (
	EnvPrefix = "TCGPRICE_"
	EnvFile   = "TCGPRICE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TCGPRICE_CONFIG is set
//  3. env (prefix TCGPRICE_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvFile))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TCGPRICE_SOURCE_TIMEOUT_MS -> source_timeout_ms (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CatalogBaseURL) == "":
		return fmt.Errorf("%w: catalog_base_url must not be empty", ErrInvalidConfig)
	case c.CatalogTimeoutMS <= 0:
		return fmt.Errorf("%w: catalog_timeout_ms must be positive", ErrInvalidConfig)
	case c.CatalogPageSize <= 0:
		return fmt.Errorf("%w: catalog_page_size must be positive", ErrInvalidConfig)
	case c.SourceTimeoutMS <= 0:
		return fmt.Errorf("%w: source_timeout_ms must be positive", ErrInvalidConfig)
	case c.VisionTimeoutMS <= 0:
		return fmt.Errorf("%w: vision_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	switch c.SourceMode {
	case SourceModeDemo, SourceModeNone:
	case SourceModeLive:
		if len(c.LiveSourceURLs) == 0 {
			return fmt.Errorf("%w: source_mode live needs live_source_urls", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source_mode %q", ErrInvalidConfig, c.SourceMode)
	}
	return nil
}
