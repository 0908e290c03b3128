// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/synapsechat/synapse-tui/internal/model"
)

// Subscription protocol constants (graphql-ws as spoken by the service).
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgKeepAlive      = "ka"
	msgStart          = "start"
	msgStop           = "stop"
	msgData           = "data"
	msgError          = "error"
	msgComplete       = "complete"

	// handshakeTimeout bounds the dial plus connection_ack exchange.
	handshakeTimeout = 15 * time.Second

	// snapshotBuffer is the per-subscription channel depth. The reader drops
	// intermediate snapshots when the consumer lags; only the latest matters
	// since every snapshot is complete.
	snapshotBuffer = 8
)

// wsFrame is the protocol envelope for both directions.
type wsFrame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// =============================================================================
// SUBSCRIPTION CLIENT
// =============================================================================

// SubscriptionClient opens live message feeds over a websocket. One
// connection per feed keeps teardown trivial: switching conversations closes
// the old socket outright.
type SubscriptionClient struct {
	endpoint string
	tokens   TokenSource
	dialer   *websocket.Dialer
}

// NewSubscriptionClient creates a feed factory for the given ws(s) endpoint.
func NewSubscriptionClient(endpoint string, tokens TokenSource) *SubscriptionClient {
	return &SubscriptionClient{
		endpoint: endpoint,
		tokens:   tokens,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			Subprotocols:     []string{"graphql-ws"},
		},
	}
}

// Subscribe implements Subscriber.
func (s *SubscriptionClient) Subscribe(ctx context.Context, chatID string) (Subscription, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve access token: %w", err)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.endpoint, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect feed: %w", err)
	}

	if err := initConnection(conn, token); err != nil {
		conn.Close()
		return nil, err
	}

	sub := &messageFeed{
		conn:      conn,
		chatID:    chatID,
		opID:      uuid.NewString(),
		snapshots: make(chan Snapshot, snapshotBuffer),
	}

	if err := sub.start(); err != nil {
		conn.Close()
		return nil, err
	}

	go sub.readLoop()
	return sub, nil
}

// initConnection performs the connection_init / connection_ack handshake.
func initConnection(conn *websocket.Conn, token string) error {
	payload := map[string]any{}
	if token != "" {
		payload["headers"] = map[string]string{"Authorization": "Bearer " + token}
	}
	raw, _ := json.Marshal(payload)

	conn.SetWriteDeadline(time.Now().Add(handshakeTimeout))
	if err := conn.WriteJSON(wsFrame{Type: msgConnectionInit, Payload: raw}); err != nil {
		return fmt.Errorf("failed to init feed: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("feed handshake failed: %w", err)
		}
		switch frame.Type {
		case msgConnectionAck:
			conn.SetReadDeadline(time.Time{})
			conn.SetWriteDeadline(time.Time{})
			return nil
		case msgKeepAlive:
			// The service may send keepalives before the ack.
		case msgError:
			return ErrUnauthorized
		default:
			return &Error{Message: "unexpected handshake frame: " + frame.Type}
		}
	}
}

// =============================================================================
// MESSAGE FEED
// =============================================================================

// messageFeed is one live subscription. The read loop owns the connection
// until it exits; Close is safe to call from any goroutine and any number of
// times.
type messageFeed struct {
	conn   *websocket.Conn
	chatID string
	opID   string

	snapshots chan Snapshot

	mu     sync.Mutex
	err    error
	closed bool
}

// start sends the subscription start frame.
func (f *messageFeed) start() error {
	payload, _ := json.Marshal(gqlRequest{
		Query:     subscriptionMessages,
		Variables: map[string]any{"chatId": f.chatID},
	})
	if err := f.conn.WriteJSON(wsFrame{ID: f.opID, Type: msgStart, Payload: payload}); err != nil {
		return fmt.Errorf("failed to start feed: %w", err)
	}
	return nil
}

// Snapshots implements Subscription.
func (f *messageFeed) Snapshots() <-chan Snapshot {
	return f.snapshots
}

// Err implements Subscription.
func (f *messageFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close implements Subscription. It stops the operation and closes the
// underlying connection; the read loop then drains out.
func (f *messageFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	f.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	f.conn.WriteJSON(wsFrame{ID: f.opID, Type: msgStop})
	return f.conn.Close()
}

// fail records the first error and is a no-op after Close.
func (f *messageFeed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil && !f.closed {
		f.err = err
	}
}

// readLoop pumps frames into the snapshot channel until the feed ends.
func (f *messageFeed) readLoop() {
	defer close(f.snapshots)

	for {
		var frame wsFrame
		if err := f.conn.ReadJSON(&frame); err != nil {
			f.fail(err)
			return
		}

		switch frame.Type {
		case msgKeepAlive, msgConnectionAck:
			continue
		case msgComplete:
			return
		case msgError:
			f.fail(&Error{Message: "feed error: " + string(frame.Payload)})
			return
		case msgData:
			snap, err := decodeSnapshot(f.chatID, frame.Payload)
			if err != nil {
				f.fail(err)
				return
			}
			select {
			case f.snapshots <- snap:
			default:
				// Consumer is behind; drop the oldest buffered snapshot to
				// make room for the newer, more complete one.
				select {
				case <-f.snapshots:
				default:
				}
				f.snapshots <- snap
			}
		}
	}
}

// decodeSnapshot converts one data frame into a Snapshot.
func decodeSnapshot(chatID string, payload []byte) (Snapshot, error) {
	var envelope struct {
		Data struct {
			Messages []wireMessage `json:"messages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	msgs := make([]model.Message, 0, len(envelope.Data.Messages))
	for _, m := range envelope.Data.Messages {
		msgs = append(msgs, model.Message{
			ID:        m.ID,
			ChatID:    m.ChatID,
			Role:      model.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Time,
		})
	}
	model.SortMessages(msgs)

	return Snapshot{ChatID: chatID, Messages: msgs}, nil
}
