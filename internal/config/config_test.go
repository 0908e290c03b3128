// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for synapse.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.UI.SidebarWidth != 32 {
		t.Errorf("SidebarWidth = %d, want 32", cfg.UI.SidebarWidth)
	}
	if cfg.Server.Offline {
		t.Error("Offline should default to false")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.GraphQLURL != Default().Server.GraphQLURL {
		t.Errorf("GraphQLURL = %q", cfg.Server.GraphQLURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
graphql_url = "https://chat.internal/v1/graphql"

[ui]
markdown = true
sidebar_width = 40
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.GraphQLURL != "https://chat.internal/v1/graphql" {
		t.Errorf("GraphQLURL = %q", cfg.Server.GraphQLURL)
	}
	if !cfg.UI.Markdown {
		t.Error("Markdown should be true")
	}
	if cfg.UI.SidebarWidth != 40 {
		t.Errorf("SidebarWidth = %d", cfg.UI.SidebarWidth)
	}

	// Subscription URL is derived from the GraphQL URL.
	if cfg.Server.SubscriptionURL != "wss://chat.internal/v1/graphql" {
		t.Errorf("SubscriptionURL = %q", cfg.Server.SubscriptionURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SYNAPSE_GRAPHQL_URL", "http://localhost:8080/v1/graphql")
	t.Setenv("SYNAPSE_AUTH_URL", "http://localhost:4000/v1/auth")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.GraphQLURL != "http://localhost:8080/v1/graphql" {
		t.Errorf("GraphQLURL = %q", cfg.Server.GraphQLURL)
	}
	if cfg.Server.SubscriptionURL != "ws://localhost:8080/v1/graphql" {
		t.Errorf("SubscriptionURL = %q", cfg.Server.SubscriptionURL)
	}
	if cfg.Auth.URL != "http://localhost:4000/v1/auth" {
		t.Errorf("Auth.URL = %q", cfg.Auth.URL)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	bad := cfg
	bad.Server.GraphQLURL = "not a url"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidGraphQLURL) {
		t.Errorf("Validate() = %v, want ErrInvalidGraphQLURL", err)
	}

	// Offline mode skips endpoint validation entirely.
	bad.Server.Offline = true
	if err := bad.Validate(); err != nil {
		t.Errorf("offline config should validate: %v", err)
	}
}
