// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/composer"
	"github.com/synapsechat/synapse-tui/internal/config"
	"github.com/synapsechat/synapse-tui/internal/feed"
	"github.com/synapsechat/synapse-tui/internal/model"
	"github.com/synapsechat/synapse-tui/internal/session"
)

// fakeBackend implements api.Service and api.Subscriber for model tests.
type fakeBackend struct {
	convs []model.Conversation
	subs  []*fakeSub
}

type fakeSub struct {
	ch     chan api.Snapshot
	closed bool
}

func (s *fakeSub) Snapshots() <-chan api.Snapshot { return s.ch }
func (s *fakeSub) Err() error                     { return nil }
func (s *fakeSub) Close() error {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

func (b *fakeBackend) ListChats(context.Context) ([]model.Conversation, error) {
	out := make([]model.Conversation, len(b.convs))
	copy(out, b.convs)
	return out, nil
}

func (b *fakeBackend) CreateChat(_ context.Context, title string) (model.Conversation, error) {
	c := model.Conversation{ID: "chat-new", Title: title, CreatedAt: time.Now()}
	b.convs = append(b.convs, c)
	return c, nil
}

func (b *fakeBackend) RenameChat(_ context.Context, id, title string) error {
	for i := range b.convs {
		if b.convs[i].ID == id {
			b.convs[i].Title = title
		}
	}
	return nil
}

func (b *fakeBackend) DeleteChat(_ context.Context, id string) error {
	for i := range b.convs {
		if b.convs[i].ID == id {
			b.convs = append(b.convs[:i], b.convs[i+1:]...)
			break
		}
	}
	return nil
}

func (b *fakeBackend) InsertUserMessage(context.Context, string, string) (string, error) {
	return "m1", nil
}

func (b *fakeBackend) TriggerAssistant(context.Context, string, string) (api.TriggerResult, error) {
	return api.TriggerResult{}, nil
}

func (b *fakeBackend) Subscribe(_ context.Context, chatID string) (api.Subscription, error) {
	sub := &fakeSub{ch: make(chan api.Snapshot, 4)}
	b.subs = append(b.subs, sub)
	return sub, nil
}

func newTestModel(t *testing.T, backend *fakeBackend) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Offline = true // skip the auth screen

	m := New(context.Background(), Options{
		Config:     &cfg,
		Service:    backend,
		Subscriber: backend,
		Version:    "test",
	})
	m.resize(100, 32)
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModelStartsInNewSessionView(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	if m.state != StateChat {
		t.Fatal("offline mode should skip the auth screen")
	}
	if got := m.activeView(); got != session.ViewNewSession {
		t.Errorf("activeView = %v, want new-session", got)
	}
}

func TestModelFirstSendAdoptsCreatedConversation(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend)

	// Simulate what SendCmd reports after create + insert.
	created := model.Conversation{ID: "chat-new", Title: model.DefaultTitle}
	m = step(t, m, composer.SentMsg{
		ChatID:  "chat-new",
		Content: "hello",
		Created: &created,
	})

	if m.orch.SelectedChatID() != "chat-new" {
		t.Errorf("selected = %q, want chat-new", m.orch.SelectedChatID())
	}
	if m.orch.IsNewSession() {
		t.Error("adopting the created conversation should leave new-session")
	}
	if !m.comp.Typing() {
		t.Error("the typing phase should survive the feed switch")
	}
	if got := m.activeView(); got != session.ViewLoading {
		t.Errorf("activeView = %v, want loading until the first snapshot", got)
	}
}

func TestModelSendFailureRestoresDraft(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	// Begin a send so the composer holds the draft.
	content, err := m.comp.Begin("precious words")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	m.input.SetValue("")

	m = step(t, m, composer.SendFailedMsg{Draft: content, Err: api.ErrUnauthorized})

	if got := m.input.Value(); got != "precious words" {
		t.Errorf("input = %q, want the restored draft", got)
	}
	if m.comp.Busy() {
		t.Error("composer should be idle after a failed send")
	}
}

func TestModelSnapshotFlow(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1", Title: "First"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})

	cmd := m.selectConversation("c1")
	if cmd == nil {
		t.Fatal("selecting a conversation should produce commands")
	}

	sub := &fakeSub{ch: make(chan api.Snapshot, 4)}
	m = step(t, m, feed.SubscribedMsg{ChatID: "c1", Sub: sub})

	if got := m.activeView(); got != session.ViewLoading {
		t.Fatalf("activeView = %v, want loading before the first snapshot", got)
	}

	m = step(t, m, feed.SnapshotMsg{Snapshot: api.Snapshot{
		ChatID: "c1",
		Messages: []model.Message{
			{ID: "m1", ChatID: "c1", Role: model.RoleUser, Content: "hi"},
		},
	}})

	if got := m.activeView(); got != session.ViewActiveChat {
		t.Errorf("activeView = %v, want active-chat", got)
	}
	if m.feed.Len() != 1 {
		t.Errorf("feed len = %d, want 1", m.feed.Len())
	}
}

func TestModelStaleSnapshotIgnored(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1"}, {ID: "c2"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})
	m.selectConversation("c2")

	m = step(t, m, feed.SnapshotMsg{Snapshot: api.Snapshot{
		ChatID:   "c1",
		Messages: []model.Message{{ID: "m1", ChatID: "c1", Role: model.RoleUser}},
	}})

	if m.feed.Loaded() {
		t.Error("a snapshot for another conversation must not load the feed")
	}
	if got := m.activeView(); got != session.ViewLoading {
		t.Errorf("activeView = %v, want loading", got)
	}
}

func TestModelEmptySnapshotShowsEmptyChat(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})
	m.selectConversation("c1")

	sub := &fakeSub{ch: make(chan api.Snapshot, 4)}
	m = step(t, m, feed.SubscribedMsg{ChatID: "c1", Sub: sub})
	m = step(t, m, feed.SnapshotMsg{Snapshot: api.Snapshot{ChatID: "c1"}})

	if got := m.activeView(); got != session.ViewEmptyChat {
		t.Errorf("activeView = %v, want empty-chat", got)
	}
}

func TestModelDeleteSelectedReturnsToNewSession(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1"}, {ID: "c2"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})
	m.selectConversation("c1")

	m = step(t, m, session.ChatDeletedMsg{
		ChatID:        "c1",
		Conversations: []model.Conversation{{ID: "c2"}},
	})

	if !m.orch.IsNewSession() {
		t.Error("deleting the selected conversation should return to new-session")
	}
	if m.feed.ChatID() != "" {
		t.Error("the feed should be detached")
	}
	if got := m.activeView(); got != session.ViewNewSession {
		t.Errorf("activeView = %v, want new-session", got)
	}
}

func TestModelDeleteOtherKeepsSelection(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1"}, {ID: "c2"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})
	m.selectConversation("c1")

	m = step(t, m, session.ChatDeletedMsg{
		ChatID:        "c2",
		Conversations: []model.Conversation{{ID: "c1"}},
	})

	if m.orch.SelectedChatID() != "c1" {
		t.Error("deleting another conversation must not change selection")
	}
}

func TestModelRenameEmptyTitleKeepsEditing(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1", Title: "First"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})

	m.controller.BeginEdit("c1", "First")
	m.sidebar.StartEdit("c1", "First")

	m = step(t, m, session.ChatRenamedMsg{ChatID: "c1", Err: session.ErrEmptyTitle})

	if m.sidebar.EditingID() != "c1" {
		t.Error("an empty-title rejection should keep the row editing")
	}
	if m.controller.RowMode("c1").Kind != model.RowEditing {
		t.Error("controller row mode should stay editing")
	}
}

func TestModelSidebarDeleteNeedsConfirmation(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1", Title: "First"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})

	// Focus the sidebar and press delete: that only arms the confirm.
	m = step(t, m, keyMsg("tab"))
	m = step(t, m, keyMsg("d"))

	if m.controller.RowMode("c1").Kind != model.RowConfirmingDelete {
		t.Fatal("delete key should enter confirming mode")
	}
	if len(backend.convs) != 1 {
		t.Error("nothing may be deleted before confirmation")
	}

	// Abort with n.
	m = step(t, m, keyMsg("n"))
	if !m.controller.RowMode("c1").IsDefault() {
		t.Error("n should abort the confirmation")
	}
}

func TestModelTypingIndicatorLifecycle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m.comp.Begin("hello")
	m = step(t, m, composer.SentMsg{ChatID: "c1", Content: "hello"})
	if !m.comp.Typing() {
		t.Fatal("SentMsg should enter the typing phase")
	}

	m = step(t, m, composer.AssistantDoneMsg{ChatID: "c1"})
	if m.comp.Typing() {
		t.Error("AssistantDoneMsg should end the typing phase")
	}
}

func TestModelSidebarCreateChat(t *testing.T) {
	backend := &fakeBackend{convs: []model.Conversation{{ID: "c1", Title: "First"}}}
	m := newTestModel(t, backend)
	m = step(t, m, session.ChatsRefreshedMsg{Conversations: backend.convs})

	// Focus the sidebar and create a conversation directly.
	m = step(t, m, keyMsg("tab"))
	next, cmd := m.Update(keyMsg("c"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("create key should issue a command")
	}

	msg, ok := cmd().(session.ChatCreatedMsg)
	if !ok {
		t.Fatalf("expected ChatCreatedMsg, got %T", cmd())
	}
	if msg.Err != nil {
		t.Fatalf("create failed: %v", msg.Err)
	}
	if msg.Conversation.Title != model.DefaultTitle {
		t.Errorf("title = %q, want %q", msg.Conversation.Title, model.DefaultTitle)
	}

	m = step(t, m, msg)
	if m.orch.SelectedChatID() != "chat-new" {
		t.Errorf("selected = %q, want chat-new", m.orch.SelectedChatID())
	}
	if !m.toasts.HasToasts() {
		t.Error("creating a chat should show a toast")
	}
}

func TestErrTextFlattensServiceErrors(t *testing.T) {
	if got := errText(nil); got != "unknown error" {
		t.Errorf("errText(nil) = %q", got)
	}
	if got := errText(errors.New("first line\nsecond line")); got != "first line second line" {
		t.Errorf("errText = %q, want single line", got)
	}
	long := errors.New(strings.Repeat("x", 400))
	if got := errText(long); len([]rune(got)) != 160 {
		t.Errorf("errText length = %d, want 160", len([]rune(got)))
	}
}
