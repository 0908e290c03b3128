// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore provides a sqlite-backed data service for offline use.
package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndListChats(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first, err := s.CreateChat(ctx, "")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if first.Title != model.DefaultTitle {
		t.Errorf("blank title should default, got %q", first.Title)
	}

	time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	second, err := s.CreateChat(ctx, "Second")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	convs, err := s.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("len = %d", len(convs))
	}
	// Newest first.
	if convs[0].ID != second.ID || convs[1].ID != first.ID {
		t.Errorf("order = [%s %s], want [%s %s]", convs[0].ID, convs[1].ID, second.ID, first.ID)
	}
}

func TestRenameChat(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	conv, _ := s.CreateChat(ctx, "Before")
	if err := s.RenameChat(ctx, conv.ID, "After"); err != nil {
		t.Fatalf("RenameChat: %v", err)
	}

	convs, _ := s.ListChats(ctx)
	if convs[0].Title != "After" {
		t.Errorf("title = %q", convs[0].Title)
	}

	if err := s.RenameChat(ctx, "missing", "X"); err == nil {
		t.Error("rename of missing chat should fail")
	}
}

func TestDeleteChatCascades(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	conv, _ := s.CreateChat(ctx, "Doomed")
	if _, err := s.InsertUserMessage(ctx, conv.ID, "hello"); err != nil {
		t.Fatalf("InsertUserMessage: %v", err)
	}

	if err := s.DeleteChat(ctx, conv.ID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	msgs, err := s.messagesFor(ctx, conv.ID)
	if err != nil {
		t.Fatalf("messagesFor: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages should cascade, got %d", len(msgs))
	}
}

func TestSubscribeDeliversInitialAndMutations(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	conv, _ := s.CreateChat(ctx, "Live")
	sub, err := s.Subscribe(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	initial := <-sub.Snapshots()
	if initial.ChatID != conv.ID || len(initial.Messages) != 0 {
		t.Errorf("initial snapshot = %+v", initial)
	}

	if _, err := s.InsertUserMessage(ctx, conv.ID, "Hi"); err != nil {
		t.Fatalf("InsertUserMessage: %v", err)
	}

	next := <-sub.Snapshots()
	if len(next.Messages) != 1 || next.Messages[0].Content != "Hi" {
		t.Errorf("snapshot after insert = %+v", next)
	}
	if next.Messages[0].Role != model.RoleUser {
		t.Errorf("role = %q", next.Messages[0].Role)
	}
}

func TestTriggerAssistantArrivesThroughFeed(t *testing.T) {
	s := openTest(t)
	s.Respond = func(content string) string { return "echo: " + content }
	ctx := context.Background()

	conv, _ := s.CreateChat(ctx, "Chat")
	sub, _ := s.Subscribe(ctx, conv.ID)
	defer sub.Close()
	<-sub.Snapshots() // initial

	s.InsertUserMessage(ctx, conv.ID, "ping")
	<-sub.Snapshots() // user message

	res, err := s.TriggerAssistant(ctx, conv.ID, "ping")
	if err != nil {
		t.Fatalf("TriggerAssistant: %v", err)
	}
	if res.AssistantText != "echo: ping" {
		t.Errorf("AssistantText = %q", res.AssistantText)
	}

	snap := <-sub.Snapshots()
	if len(snap.Messages) != 2 {
		t.Fatalf("len = %d", len(snap.Messages))
	}
	last := snap.Messages[1]
	if last.Role != model.RoleAssistant || last.Content != "echo: ping" {
		t.Errorf("assistant message = %+v", last)
	}
}

func TestDeleteEndsFeeds(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	conv, _ := s.CreateChat(ctx, "Chat")
	sub, _ := s.Subscribe(ctx, conv.ID)
	<-sub.Snapshots()

	if err := s.DeleteChat(ctx, conv.ID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	if _, open := <-sub.Snapshots(); open {
		t.Error("feed should end when its conversation is deleted")
	}
	if sub.Err() != nil {
		t.Errorf("clean close expected, got %v", sub.Err())
	}
}

// Interface conformance at compile time.
var (
	_ api.Service    = (*Store)(nil)
	_ api.Subscriber = (*Store)(nil)
)
