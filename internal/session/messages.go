// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea messages and commands for conversation
// list operations. Each command runs one controller operation off the UI
// loop and reports back with a single message carrying the refreshed list.
package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/model"
)

// =============================================================================
// LIST MESSAGES
// =============================================================================

// ChatsRefreshedMsg delivers a fresh conversation list.
type ChatsRefreshedMsg struct {
	Conversations []model.Conversation
	Err           error
}

// ChatCreatedMsg reports the result of creating a conversation. On success
// Conversations holds the refreshed list including the new entry.
type ChatCreatedMsg struct {
	Conversation  model.Conversation
	Conversations []model.Conversation
	Err           error
}

// ChatRenamedMsg reports the result of committing a rename.
type ChatRenamedMsg struct {
	ChatID        string
	Conversations []model.Conversation
	Err           error
}

// ChatDeletedMsg reports the result of a confirmed delete.
type ChatDeletedMsg struct {
	ChatID        string
	Conversations []model.Conversation
	Err           error
}

// =============================================================================
// COMMANDS
// =============================================================================

// RefreshCmd fetches the conversation list.
func RefreshCmd(ctx context.Context, c *Controller) tea.Cmd {
	return func() tea.Msg {
		convs, err := c.Refresh(ctx)
		return ChatsRefreshedMsg{Conversations: convs, Err: err}
	}
}

// CreateCmd creates a conversation and refetches the list.
func CreateCmd(ctx context.Context, c *Controller, title string) tea.Cmd {
	return func() tea.Msg {
		conv, convs, err := c.Create(ctx, title)
		return ChatCreatedMsg{Conversation: conv, Conversations: convs, Err: err}
	}
}

// RenameCmd commits a rename and refetches the list.
func RenameCmd(ctx context.Context, c *Controller, chatID, title string) tea.Cmd {
	return func() tea.Msg {
		convs, err := c.Rename(ctx, chatID, title)
		return ChatRenamedMsg{ChatID: chatID, Conversations: convs, Err: err}
	}
}

// DeleteCmd performs a confirmed delete and refetches the list.
func DeleteCmd(ctx context.Context, c *Controller, chatID string) tea.Cmd {
	return func() tea.Msg {
		convs, err := c.Delete(ctx, chatID)
		return ChatDeletedMsg{ChatID: chatID, Conversations: convs, Err: err}
	}
}
