// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea messages and commands for the two send
// phases. SendCmd covers create-if-needed plus the user message insert;
// TriggerCmd covers the assistant call.
package composer

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/model"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SentMsg reports that the user message was persisted. Created is non-nil
// when this send started a fresh session and a conversation had to be
// created first.
type SentMsg struct {
	ChatID    string
	MessageID string
	Content   string
	Created   *model.Conversation
}

// SendFailedMsg reports that the user message could not be persisted. Draft
// is the trimmed content to restore into the input.
type SendFailedMsg struct {
	Draft string
	Err   error
}

// AssistantDoneMsg reports that the assistant trigger returned. The reply
// itself arrives through the subscription feed; a nil Err just means the
// backend accepted the request.
type AssistantDoneMsg struct {
	ChatID string
	Err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// SendCmd persists a user message off the UI loop. When chatID is empty a
// conversation is created first with the default title; if the follow-up
// insert then fails the send is still reported as failed so the draft is
// restored, leaving behind an empty conversation the user can reuse or
// delete.
func SendCmd(ctx context.Context, svc api.Service, chatID, content string) tea.Cmd {
	return func() tea.Msg {
		var created *model.Conversation
		if chatID == "" {
			conv, err := svc.CreateChat(ctx, model.DefaultTitle)
			if err != nil {
				return SendFailedMsg{Draft: content, Err: err}
			}
			created = &conv
			chatID = conv.ID
		}

		msgID, err := svc.InsertUserMessage(ctx, chatID, content)
		if err != nil {
			return SendFailedMsg{Draft: content, Err: err}
		}
		return SentMsg{ChatID: chatID, MessageID: msgID, Content: content, Created: created}
	}
}

// TriggerCmd asks the backend to produce the assistant reply. The result
// payload is dropped on purpose; only the error survives.
func TriggerCmd(ctx context.Context, svc api.Service, chatID, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.TriggerAssistant(ctx, chatID, content)
		return AssistantDoneMsg{ChatID: chatID, Err: err}
	}
}
