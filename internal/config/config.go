// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for synapse.
//
// Supports TOML configuration with environment variable overrides and
// validation.
//
// Configuration file locations (in order of precedence):
//   - path passed explicitly (--config)
//   - ~/.synapse/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete synapse configuration.
type Config struct {
	// Server holds the backend endpoints.
	Server ServerConfig `toml:"server"`

	// Auth holds identity provider settings.
	Auth AuthConfig `toml:"auth"`

	// UI holds terminal presentation settings.
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains the data service endpoints.
type ServerConfig struct {
	// GraphQLURL is the HTTP endpoint for queries and mutations.
	GraphQLURL string `toml:"graphql_url"`
	// SubscriptionURL is the websocket endpoint for live message feeds.
	// Derived from GraphQLURL when empty (https -> wss, http -> ws).
	SubscriptionURL string `toml:"subscription_url"`
	// RequestTimeout bounds a single query or mutation round trip.
	RequestTimeout time.Duration `toml:"request_timeout"`
	// Offline swaps the remote data service for the local sqlite store.
	Offline bool `toml:"offline"`
}

// AuthConfig contains identity provider settings.
type AuthConfig struct {
	// URL is the base URL of the auth service.
	URL string `toml:"url"`
	// SessionFile is where the restored session is persisted.
	// Default: ~/.synapse/session.json
	SessionFile string `toml:"session_file"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// Markdown renders assistant messages through a markdown renderer
	// instead of verbatim text.
	Markdown bool `toml:"markdown"`
	// SidebarWidth is the chat list sidebar width in columns.
	SidebarWidth int `toml:"sidebar_width"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			GraphQLURL:     "https://synapse.example.com/v1/graphql",
			RequestTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			URL: "https://synapse.example.com/v1/auth",
		},
		UI: UIConfig{
			SidebarWidth: 32,
		},
	}
}

// Dir returns the synapse configuration directory (~/.synapse).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".synapse"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from path, or from the default location when path
// is empty. A missing file is not an error: defaults are returned. Environment
// overrides are applied after file loading, validation after that.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SYNAPSE_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SYNAPSE_GRAPHQL_URL"); v != "" {
		cfg.Server.GraphQLURL = v
	}
	if v := os.Getenv("SYNAPSE_SUBSCRIPTION_URL"); v != "" {
		cfg.Server.SubscriptionURL = v
	}
	if v := os.Getenv("SYNAPSE_AUTH_URL"); v != "" {
		cfg.Auth.URL = v
	}
	if v := os.Getenv("SYNAPSE_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Offline = b
		}
	}
}

// applyDerived fills fields computable from others.
func (c *Config) applyDerived() {
	if c.Server.SubscriptionURL == "" && c.Server.GraphQLURL != "" {
		if u, err := url.Parse(c.Server.GraphQLURL); err == nil {
			switch u.Scheme {
			case "https":
				u.Scheme = "wss"
			case "http":
				u.Scheme = "ws"
			}
			c.Server.SubscriptionURL = u.String()
		}
	}
	if c.Auth.SessionFile == "" {
		if dir, err := Dir(); err == nil {
			c.Auth.SessionFile = filepath.Join(dir, "session.json")
		}
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = 32
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validation errors.
var (
	ErrInvalidGraphQLURL      = errors.New("server.graphql_url must be a valid http(s) URL")
	ErrInvalidSubscriptionURL = errors.New("server.subscription_url must be a valid ws(s) URL")
	ErrInvalidAuthURL         = errors.New("auth.url must be a valid http(s) URL")
)

// Validate checks the configuration for structural problems. Offline mode
// skips endpoint validation since no network endpoints are used.
func (c *Config) Validate() error {
	if c.Server.Offline {
		return nil
	}
	if !validHTTPURL(c.Server.GraphQLURL) {
		return ErrInvalidGraphQLURL
	}
	if !validWSURL(c.Server.SubscriptionURL) {
		return ErrInvalidSubscriptionURL
	}
	if !validHTTPURL(c.Auth.URL) {
		return ErrInvalidAuthURL
	}
	return nil
}

func validHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validWSURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "ws" || u.Scheme == "wss") && u.Host != ""
}
