// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the identity provider client and the session context.
//
// The identity provider is an opaque email/password service. This package
// wraps it behind an explicitly injected Session object with a defined
// lifecycle: on start, Restore attempts a silent refresh from the persisted
// session file; on sign-out, Purge removes all persisted state. No ambient
// globals hold tokens.
//
// # Key Types
//
//   - Client: HTTP calls against the provider (sign-in, sign-up, refresh)
//   - Session: the injected session context; implements api.TokenSource
//   - User: the signed-in identity
//
// Access tokens are JWTs. The client decodes the exp claim without verifying
// the signature (the server owns the signing secret) to refresh shortly
// before expiry instead of bouncing off 401s.
package auth
