// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
//
// The data service is a GraphQL endpoint over a fixed chat/message schema.
// Queries and mutations travel over HTTP; the live message feed is a
// websocket subscription delivering the full ordered message list on every
// change (snapshots, not deltas).
//
// # Key Types
//
//   - Service: queries and mutations the core consumes
//   - Subscriber: live message feed factory
//   - Client: the remote implementation of both
//
// The interfaces exist so the core state machines never know whether they
// talk to the hosted backend or to the local sqlite store.
package api
