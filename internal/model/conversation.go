// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"sort"
	"strings"
	"time"
)

// DefaultTitle is assigned to conversations created without an explicit title.
const DefaultTitle = "New Chat"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a titled container of messages. The server assigns the ID
// at creation time; the client never invents conversation IDs.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayTitle returns the title, falling back to DefaultTitle when unset.
func (c Conversation) DisplayTitle() string {
	if strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	return DefaultTitle
}

// =============================================================================
// ORDERING
// =============================================================================

// SortConversations orders a conversation list newest first, matching the
// server's list ordering so refreshes never reshuffle rows.
func SortConversations(convs []Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].CreatedAt.After(convs[j].CreatedAt)
	})
}

// FindConversation returns the conversation with the given ID and whether it
// was present.
func FindConversation(convs []Conversation, id string) (Conversation, bool) {
	for _, c := range convs {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}
