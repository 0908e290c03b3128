// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore provides a sqlite-backed data service for offline use.
//
// It implements the same api.Service and api.Subscriber interfaces as the
// remote client, so the rest of the program cannot tell the difference. Live
// feeds are fanned out in-process: every mutation republishes the full
// message list to that conversation's subscribers, matching the remote
// feed's snapshot semantics.
//
// The assistant in offline mode is a canned responder, which keeps the whole
// send pipeline exercisable without a network. Tests use this package as
// their hermetic backend.
package localstore
