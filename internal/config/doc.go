// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for synapse.
//
// Configuration is read from ~/.synapse/config.toml (TOML), with SYNAPSE_*
// environment variables taking precedence and built-in defaults beneath.
//
// # Sections
//
//   - [server]: GraphQL endpoint, subscription endpoint, timeouts, offline
//   - [auth]: identity provider URL, session file location
//   - [ui]: markdown rendering, sidebar width
package config
