// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file, then environment variables.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Price source modes.
const (
	SourceModeDemo = "demo"
	SourceModeLive = "live"
	SourceModeNone = "none"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// CatalogBaseURL points at the canonical card catalog API.
	CatalogBaseURL string `koanf:"catalog_base_url"`
	// CatalogAPIKey is sent as X-Api-Key when set.
	CatalogAPIKey string `koanf:"catalog_api_key"`
	// CatalogTimeoutMS bounds a single catalog call.
	CatalogTimeoutMS int `koanf:"catalog_timeout_ms"`
	// CatalogPageSize caps the candidates returned by a name search.
	CatalogPageSize int `koanf:"catalog_page_size"`

	// SourceMode selects the price sources: demo, live or none.
	SourceMode string `koanf:"source_mode"`
	// SourceTimeoutMS bounds each price source call.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`
	// LiveSourceURLs maps a source name to its quote endpoint base URL.
	LiveSourceURLs map[string]string `koanf:"live_source_urls"`

	// VisionAPIKey authenticates against the chat completion API.
	VisionAPIKey string `koanf:"vision_api_key"`
	// VisionBaseURL is the chat completions endpoint.
	VisionBaseURL string `koanf:"vision_base_url"`
	// VisionModel names the vision-capable model.
	VisionModel string `koanf:"vision_model"`
	// VisionTimeoutMS bounds a single recognition call.
	VisionTimeoutMS int `koanf:"vision_timeout_ms"`

	// MaxUploadBytes caps the accepted image size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8000",
		CatalogBaseURL:   "https://api.pokemontcg.io/v2",
		CatalogTimeoutMS: 30_000,
		CatalogPageSize:  10,
		SourceMode:       SourceModeDemo,
		SourceTimeoutMS:  5_000,
		LiveSourceURLs:   map[string]string{},
		VisionBaseURL:    "https://api.openai.com/v1/chat/completions",
		VisionModel:      "gpt-4o",
		VisionTimeoutMS:  60_000,
		MaxUploadBytes:   10 << 20,
	}
}

// CatalogTimeout returns CatalogTimeoutMS as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutMS) * time.Millisecond
}

// SourceTimeout returns SourceTimeoutMS as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMS) * time.Millisecond
}

// VisionTimeout returns VisionTimeoutMS as a duration.
func (c *Config) VisionTimeout() time.Duration {
	return time.Duration(c.VisionTimeoutMS) * time.Millisecond
}
