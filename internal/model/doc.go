// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chats, their messages, and per-row list interaction state.
//
// # Key Types
//
//   - Conversation: A titled container of messages, server-owned
//   - Message: Single immutable message with role, content, and timestamp
//   - Role: Message role enumeration (user, assistant)
//   - RowMode: Tagged variant for sidebar row interaction state
//
// # Ownership
//
// The server is authoritative for conversations and messages; the client
// holds eventually-consistent projections refreshed after mutations.
// RowMode is client-only and never persisted.
package model
