// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/synapsechat/synapse-tui/internal/model"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// ViewState is the top-level view the orchestrator has selected. Exactly one
// is active at any time.
type ViewState int

const (
	// ViewNewSession shows the welcome screen with a bare composer. The
	// first submit creates a conversation before the message is persisted.
	ViewNewSession ViewState = iota
	// ViewLoading means a conversation is selected but its feed has not yet
	// delivered an initial snapshot.
	ViewLoading
	// ViewEmptyChat means the selected conversation is loaded and has no
	// messages.
	ViewEmptyChat
	// ViewActiveChat means the selected conversation has messages.
	ViewActiveChat
)

// String returns a short name for logging and test failures.
func (v ViewState) String() string {
	switch v {
	case ViewNewSession:
		return "new-session"
	case ViewLoading:
		return "loading"
	case ViewEmptyChat:
		return "empty-chat"
	case ViewActiveChat:
		return "active-chat"
	default:
		return "unknown"
	}
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator owns conversation selection and the new-session flag, and
// derives the active view. It starts in new-session regardless of what any
// previous run had selected: sessions are not restored across starts.
type Orchestrator struct {
	conversations []model.Conversation
	listLoaded    bool

	selectedChatID string
	isNewSession   bool
}

// NewOrchestrator creates an orchestrator in the new-session state.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{isNewSession: true}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Select makes the given conversation active and leaves new-session.
func (o *Orchestrator) Select(chatID string) {
	o.selectedChatID = chatID
	o.isNewSession = false
}

// StartNewSession clears selection and re-enters new-session.
func (o *Orchestrator) StartNewSession() {
	o.selectedChatID = ""
	o.isNewSession = true
}

// HandleDeleted reacts to a conversation deletion. Deleting the selected
// conversation clears selection and re-enters new-session; deleting any
// other conversation changes nothing.
func (o *Orchestrator) HandleDeleted(chatID string) {
	if chatID == o.selectedChatID {
		o.StartNewSession()
	}
}

// SetConversations installs a fresh list snapshot. If the selected
// conversation vanished (deleted by another session), selection is cleared
// and new-session re-entered.
func (o *Orchestrator) SetConversations(convs []model.Conversation) {
	o.conversations = convs
	model.SortConversations(o.conversations)
	o.listLoaded = true

	if o.selectedChatID != "" {
		if _, ok := model.FindConversation(o.conversations, o.selectedChatID); !ok {
			o.StartNewSession()
		}
	}
}

// =============================================================================
// DERIVED VIEW
// =============================================================================

// Resolve picks exactly one of the four views from the current selection
// state plus the feed's loading state for the selected conversation.
func (o *Orchestrator) Resolve(feedLoaded bool, messageCount int) ViewState {
	if o.isNewSession || (o.selectedChatID == "" && o.listLoaded) {
		return ViewNewSession
	}
	if o.selectedChatID == "" || !feedLoaded {
		return ViewLoading
	}
	if messageCount > 0 {
		return ViewActiveChat
	}
	return ViewEmptyChat
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SelectedChatID returns the active conversation id, empty when none.
func (o *Orchestrator) SelectedChatID() string {
	return o.selectedChatID
}

// IsNewSession reports whether the session is fresh (no conversation yet).
func (o *Orchestrator) IsNewSession() bool {
	return o.isNewSession
}

// Conversations returns the cached list, newest first.
func (o *Orchestrator) Conversations() []model.Conversation {
	return o.conversations
}

// ListLoaded reports whether an initial conversation list has arrived.
func (o *Orchestrator) ListLoaded() bool {
	return o.listLoaded
}

// SelectedConversation returns the active conversation, if any.
func (o *Orchestrator) SelectedConversation() (model.Conversation, bool) {
	if o.selectedChatID == "" {
		return model.Conversation{}, false
	}
	return model.FindConversation(o.conversations, o.selectedChatID)
}
