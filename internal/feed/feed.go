// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/model"
)

// =============================================================================
// FEED
// =============================================================================

// Feed tracks the message list for the active conversation. It is owned by
// the UI loop and never touched from other goroutines; subscribing happens
// in a command (SubscribeCmd) and deliveries arrive as Bubble Tea messages.
type Feed struct {
	chatID   string
	sub      api.Subscription
	loaded   bool
	messages []model.Message

	lastCount int
}

// New creates a feed with no target conversation.
func New() *Feed {
	return &Feed{}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Target points the feed at a conversation, closing any previous
// subscription and clearing displayed state. The subscription itself is
// opened asynchronously with SubscribeCmd and handed back via Attach.
// Targeting the empty id just detaches.
func (f *Feed) Target(chatID string) {
	f.Detach()
	f.chatID = chatID
}

// Attach adopts a freshly opened subscription. If the user has already
// switched away from the conversation it was opened for, the subscription
// is closed and discarded.
func (f *Feed) Attach(chatID string, sub api.Subscription) bool {
	if chatID != f.chatID {
		_ = sub.Close()
		return false
	}
	if f.sub != nil {
		_ = f.sub.Close()
	}
	f.sub = sub
	return true
}

// Detach closes the current subscription and clears all feed state.
func (f *Feed) Detach() {
	if f.sub != nil {
		_ = f.sub.Close()
		f.sub = nil
	}
	f.chatID = ""
	f.loaded = false
	f.messages = nil
	f.lastCount = 0
}

// =============================================================================
// SNAPSHOT APPLICATION
// =============================================================================

// Apply installs a snapshot. Deliveries for any conversation other than the
// one the feed currently targets are stale remnants of a previous
// subscription and are dropped. The returned autoScroll is true only when
// the message count strictly increased.
func (f *Feed) Apply(snap api.Snapshot) (applied, autoScroll bool) {
	if snap.ChatID != f.chatID || f.chatID == "" {
		return false, false
	}

	model.SortMessages(snap.Messages)
	f.messages = snap.Messages
	f.loaded = true

	autoScroll = len(snap.Messages) > f.lastCount
	f.lastCount = len(snap.Messages)
	return true, autoScroll
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ChatID returns the conversation the feed currently targets, empty if none.
func (f *Feed) ChatID() string {
	return f.chatID
}

// Attached reports whether a live subscription is currently attached.
func (f *Feed) Attached() bool {
	return f.sub != nil
}

// Subscription returns the attached subscription, nil when detached. The
// UI needs it to arm the next WaitCmd after each delivery.
func (f *Feed) Subscription() api.Subscription {
	return f.sub
}

// Loaded reports whether an initial snapshot has arrived for the current
// conversation.
func (f *Feed) Loaded() bool {
	return f.loaded
}

// Messages returns the current transcript in ascending creation order.
func (f *Feed) Messages() []model.Message {
	return f.messages
}

// Len returns the current message count.
func (f *Feed) Len() int {
	return len(f.messages)
}
