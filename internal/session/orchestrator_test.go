// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/synapsechat/synapse-tui/internal/model"
)

func conv(id, title string, age time.Duration) model.Conversation {
	return model.Conversation{ID: id, Title: title, CreatedAt: time.Now().Add(-age)}
}

func TestOrchestratorStartsInNewSession(t *testing.T) {
	o := NewOrchestrator()

	if !o.IsNewSession() {
		t.Fatal("fresh orchestrator should be in new-session")
	}
	if got := o.Resolve(false, 0); got != ViewNewSession {
		t.Errorf("Resolve = %v, want %v", got, ViewNewSession)
	}
}

func TestOrchestratorSelectLeavesNewSession(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{conv("c1", "First", time.Hour)})

	o.Select("c1")

	if o.IsNewSession() {
		t.Error("Select should clear new-session")
	}
	if got := o.SelectedChatID(); got != "c1" {
		t.Errorf("SelectedChatID = %q, want c1", got)
	}
}

func TestOrchestratorResolveStates(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{conv("c1", "First", time.Hour)})
	o.Select("c1")

	if got := o.Resolve(false, 0); got != ViewLoading {
		t.Errorf("feed not loaded: Resolve = %v, want %v", got, ViewLoading)
	}
	if got := o.Resolve(true, 0); got != ViewEmptyChat {
		t.Errorf("loaded empty: Resolve = %v, want %v", got, ViewEmptyChat)
	}
	if got := o.Resolve(true, 3); got != ViewActiveChat {
		t.Errorf("loaded with messages: Resolve = %v, want %v", got, ViewActiveChat)
	}
}

func TestOrchestratorNewSessionWinsOverFeedState(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{conv("c1", "First", time.Hour)})
	o.Select("c1")
	o.StartNewSession()

	// Even with a loaded feed and stale messages, new-session takes priority.
	if got := o.Resolve(true, 5); got != ViewNewSession {
		t.Errorf("Resolve = %v, want %v", got, ViewNewSession)
	}
}

func TestOrchestratorHandleDeleted(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{
		conv("c1", "First", 2*time.Hour),
		conv("c2", "Second", time.Hour),
	})
	o.Select("c1")

	o.HandleDeleted("c2")
	if o.IsNewSession() || o.SelectedChatID() != "c1" {
		t.Error("deleting an unselected conversation must not change selection")
	}

	o.HandleDeleted("c1")
	if !o.IsNewSession() || o.SelectedChatID() != "" {
		t.Error("deleting the selected conversation must re-enter new-session")
	}
}

func TestOrchestratorSetConversationsSortsAndPrunes(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{
		conv("old", "Old", 3*time.Hour),
		conv("new", "New", time.Minute),
	})

	got := o.Conversations()
	if len(got) != 2 || got[0].ID != "new" {
		t.Fatalf("conversations not sorted newest first: %+v", got)
	}

	o.Select("old")
	o.SetConversations([]model.Conversation{conv("new", "New", time.Minute)})

	if !o.IsNewSession() {
		t.Error("selection vanishing from the list must re-enter new-session")
	}
}

func TestOrchestratorSelectedConversation(t *testing.T) {
	o := NewOrchestrator()
	o.SetConversations([]model.Conversation{conv("c1", "First", time.Hour)})

	if _, ok := o.SelectedConversation(); ok {
		t.Error("no selection should yield no conversation")
	}

	o.Select("c1")
	c, ok := o.SelectedConversation()
	if !ok || c.ID != "c1" {
		t.Errorf("SelectedConversation = %+v, %v", c, ok)
	}
}
