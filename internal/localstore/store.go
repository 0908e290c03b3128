// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore provides a sqlite-backed data service for offline use.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/model"
)

// schema creates the two tables on first open. Messages cascade with their
// conversation, the same behavior the hosted store applies server-side.
const schema = `
CREATE TABLE IF NOT EXISTS chats (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	chat_id    TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the offline data service. It implements api.Service and
// api.Subscriber.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[string][]*localFeed // keyed by chat id

	// Respond produces the offline assistant's reply to a user message.
	// Overridable in tests; the default is a canned echo.
	Respond func(content string) string
}

// Open creates or opens the sqlite database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{
		db:   db,
		subs: make(map[string][]*localFeed),
		Respond: func(content string) string {
			return "(offline) I can't reach the assistant right now. You said:\n\n" + content
		},
	}, nil
}

// Close closes the database and ends all live feeds.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, feeds := range s.subs {
		for _, f := range feeds {
			f.end(nil)
		}
	}
	s.subs = make(map[string][]*localFeed)
	s.mu.Unlock()
	return s.db.Close()
}

// =============================================================================
// SERVICE IMPLEMENTATION
// =============================================================================

// ListChats implements api.Service.
func (s *Store) ListChats(ctx context.Context) ([]model.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, created_at FROM chats ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var convs []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// CreateChat implements api.Service.
func (s *Store) CreateChat(ctx context.Context, title string) (model.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = model.DefaultTitle
	}
	conv := model.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (id, title, created_at) VALUES (?, ?, ?)",
		conv.ID, conv.Title, conv.CreatedAt)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to create chat: %w", err)
	}
	return conv, nil
}

// RenameChat implements api.Service.
func (s *Store) RenameChat(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE chats SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return fmt.Errorf("failed to rename chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &api.Error{Message: "conversation not found"}
	}
	return nil
}

// DeleteChat implements api.Service.
func (s *Store) DeleteChat(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &api.Error{Message: "conversation not found"}
	}

	// End feeds for the deleted conversation.
	s.mu.Lock()
	feeds := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	for _, f := range feeds {
		f.end(nil)
	}
	return nil
}

// InsertUserMessage implements api.Service.
func (s *Store) InsertUserMessage(ctx context.Context, chatID, content string) (string, error) {
	id, err := s.insertMessage(ctx, chatID, model.RoleUser, content)
	if err != nil {
		return "", err
	}
	s.publish(ctx, chatID)
	return id, nil
}

// TriggerAssistant implements api.Service. The canned reply is inserted
// directly and arrives through the feed, mirroring the hosted backend's
// subscription-first delivery.
func (s *Store) TriggerAssistant(ctx context.Context, chatID, content string) (api.TriggerResult, error) {
	reply := s.Respond(content)
	id, err := s.insertMessage(ctx, chatID, model.RoleAssistant, reply)
	if err != nil {
		return api.TriggerResult{}, err
	}
	s.publish(ctx, chatID)
	return api.TriggerResult{AssistantText: reply, MessageID: id}, nil
}

// insertMessage writes one message row.
func (s *Store) insertMessage(ctx context.Context, chatID string, role model.Role, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (id, chat_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		id, chatID, role.String(), content, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// messagesFor reads the full ordered message list for one conversation.
func (s *Store) messagesFor(ctx context.Context, chatID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC",
		chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = model.Role(role)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// =============================================================================
// SUBSCRIBER IMPLEMENTATION
// =============================================================================

// Subscribe implements api.Subscriber. The initial snapshot is delivered
// immediately, then one per mutation.
func (s *Store) Subscribe(ctx context.Context, chatID string) (api.Subscription, error) {
	f := &localFeed{
		store:     s,
		chatID:    chatID,
		snapshots: make(chan api.Snapshot, 8),
	}

	msgs, err := s.messagesFor(ctx, chatID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.subs[chatID] = append(s.subs[chatID], f)
	s.mu.Unlock()

	f.deliver(api.Snapshot{ChatID: chatID, Messages: msgs})
	return f, nil
}

// publish re-reads a conversation and delivers the snapshot to its feeds.
func (s *Store) publish(ctx context.Context, chatID string) {
	s.mu.Lock()
	feeds := append([]*localFeed(nil), s.subs[chatID]...)
	s.mu.Unlock()
	if len(feeds) == 0 {
		return
	}

	msgs, err := s.messagesFor(ctx, chatID)
	if err != nil {
		for _, f := range feeds {
			f.end(err)
		}
		return
	}
	for _, f := range feeds {
		f.deliver(api.Snapshot{ChatID: chatID, Messages: msgs})
	}
}

// drop removes a feed from the fanout table.
func (s *Store) drop(feed *localFeed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	feeds := s.subs[feed.chatID]
	for i, f := range feeds {
		if f == feed {
			s.subs[feed.chatID] = append(feeds[:i], feeds[i+1:]...)
			break
		}
	}
}

// =============================================================================
// LOCAL FEED
// =============================================================================

// localFeed is one in-process subscription.
type localFeed struct {
	store     *Store
	chatID    string
	snapshots chan api.Snapshot

	mu     sync.Mutex
	err    error
	closed bool
}

// Snapshots implements api.Subscription.
func (f *localFeed) Snapshots() <-chan api.Snapshot {
	return f.snapshots
}

// Err implements api.Subscription.
func (f *localFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close implements api.Subscription.
func (f *localFeed) Close() error {
	f.store.drop(f)
	f.end(nil)
	return nil
}

// deliver pushes a snapshot, dropping the oldest buffered one when full.
func (f *localFeed) deliver(snap api.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.snapshots <- snap:
	default:
		select {
		case <-f.snapshots:
		default:
		}
		f.snapshots <- snap
	}
}

// end closes the feed once, recording the terminal error if any.
func (f *localFeed) end(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.err = err
	close(f.snapshots)
}
