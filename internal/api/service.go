// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
package api

import (
	"context"

	"github.com/synapsechat/synapse-tui/internal/model"
)

// =============================================================================
// SERVICE INTERFACES
// =============================================================================

// Service is the query and mutation surface of the data service.
type Service interface {
	// ListChats returns all conversations, newest first.
	ListChats(ctx context.Context) ([]model.Conversation, error)

	// CreateChat persists a new conversation and returns it with its
	// server-assigned ID.
	CreateChat(ctx context.Context, title string) (model.Conversation, error)

	// RenameChat updates a conversation title.
	RenameChat(ctx context.Context, id, title string) error

	// DeleteChat removes a conversation. Messages cascade server-side.
	DeleteChat(ctx context.Context, id string) error

	// InsertUserMessage persists a user-role message and returns its ID.
	InsertUserMessage(ctx context.Context, chatID, content string) (string, error)

	// TriggerAssistant asks the backend to produce a reply. The reply itself
	// arrives through the subscription feed; the returned payload is not
	// rendered by the UI.
	TriggerAssistant(ctx context.Context, chatID, content string) (TriggerResult, error)
}

// TriggerResult is the assistant trigger's direct response payload.
type TriggerResult struct {
	AssistantText string
	MessageID     string
}

// Subscriber creates live message feeds.
type Subscriber interface {
	// Subscribe opens a live feed for one conversation. Each delivery is the
	// complete ordered message list for that conversation.
	Subscribe(ctx context.Context, chatID string) (Subscription, error)
}

// Subscription is one live message feed. Snapshots is closed when the feed
// ends; Err reports why, nil for a clean close.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Err() error
	Close() error
}

// Snapshot is a complete ordered message list for one conversation. ChatID
// identifies which conversation the snapshot belongs to so late deliveries
// for a previously selected conversation can be discarded.
type Snapshot struct {
	ChatID   string
	Messages []model.Message
}

// =============================================================================
// ERRORS
// =============================================================================

// Error is a data service error with a user-presentable message.
// Use errors.Is(err, ErrUnauthorized) for the auth case.
type Error struct {
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing api errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrUnauthorized is returned when the data service rejects the session.
var ErrUnauthorized = &Error{Message: "unauthorized"}
