// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"testing"
	"time"
)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestDisplayTitle(t *testing.T) {
	c := Conversation{Title: "Project notes"}
	if got := c.DisplayTitle(); got != "Project notes" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "Project notes")
	}

	c.Title = "   "
	if got := c.DisplayTitle(); got != DefaultTitle {
		t.Errorf("DisplayTitle() on blank title = %q, want %q", got, DefaultTitle)
	}
}

func TestSortConversations(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	convs := []Conversation{
		{ID: "c", CreatedAt: base},
		{ID: "a", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
	}

	SortConversations(convs)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if convs[i].ID != id {
			t.Errorf("convs[%d].ID = %q, want %q", i, convs[i].ID, id)
		}
	}
}

func TestFindConversation(t *testing.T) {
	convs := []Conversation{{ID: "x", Title: "X"}, {ID: "y", Title: "Y"}}

	got, ok := FindConversation(convs, "y")
	if !ok || got.Title != "Y" {
		t.Errorf("FindConversation(y) = %+v, %v", got, ok)
	}

	if _, ok := FindConversation(convs, "z"); ok {
		t.Error("FindConversation(z) should not be found")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestRoleDisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", got)
	}
	if got := RoleAssistant.DisplayName(); got != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q", got)
	}
	if !RoleUser.Valid() || !RoleAssistant.Valid() {
		t.Error("standard roles should be valid")
	}
	if Role("system").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestSortMessages(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: "2", CreatedAt: base.Add(time.Minute)},
		{ID: "1", CreatedAt: base},
		{ID: "3", CreatedAt: base.Add(2 * time.Minute)},
	}

	SortMessages(msgs)

	for i, id := range []string{"1", "2", "3"} {
		if msgs[i].ID != id {
			t.Errorf("msgs[%d].ID = %q, want %q", i, msgs[i].ID, id)
		}
	}
}

// =============================================================================
// ROW MODE TESTS
// =============================================================================

func TestRowModeConstructors(t *testing.T) {
	if !DefaultRowMode().IsDefault() {
		t.Error("DefaultRowMode should be default")
	}

	e := EditingRowMode("Current")
	if e.Kind != RowEditing || e.Draft != "Current" {
		t.Errorf("EditingRowMode = %+v", e)
	}

	d := ConfirmingDeleteRowMode()
	if d.Kind != RowConfirmingDelete || d.IsDefault() {
		t.Errorf("ConfirmingDeleteRowMode = %+v", d)
	}
}
