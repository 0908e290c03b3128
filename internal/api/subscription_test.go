// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeedServer speaks just enough of the subscription protocol to drive the
// client: ack the init, then hand the connection to serve.
func fakeFeedServer(t *testing.T, serve func(conn *websocket.Conn, startFrame wsFrame)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{Subprotocols: []string{"graphql-ws"}}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var init wsFrame
		require.NoError(t, conn.ReadJSON(&init))
		require.Equal(t, msgConnectionInit, init.Type)
		require.NoError(t, conn.WriteJSON(wsFrame{Type: msgConnectionAck}))

		var start wsFrame
		require.NoError(t, conn.ReadJSON(&start))
		require.Equal(t, msgStart, start.Type)

		serve(conn, start)
	}))
}

// dataFrame builds a data frame carrying the given message rows.
func dataFrame(t *testing.T, opID string, rows string) wsFrame {
	t.Helper()
	payload := `{"data":{"messages":[` + rows + `]}}`
	return wsFrame{ID: opID, Type: msgData, Payload: json.RawMessage(payload)}
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	srv := fakeFeedServer(t, func(conn *websocket.Conn, start wsFrame) {
		var req gqlRequest
		require.NoError(t, json.Unmarshal(start.Payload, &req))
		assert.Equal(t, "chat-1", req.Variables["chatId"])

		conn.WriteJSON(dataFrame(t, start.ID, ``))
		conn.WriteJSON(dataFrame(t, start.ID,
			`{"id":"m1","chat_id":"chat-1","role":"user","content":"Hello","created_at":"2025-06-01T10:00:00+00:00"}`))
		conn.WriteJSON(wsFrame{ID: start.ID, Type: msgComplete})
	})
	defer srv.Close()

	sc := NewSubscriptionClient(wsURL(srv), StaticToken("tok"))
	sub, err := sc.Subscribe(context.Background(), "chat-1")
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Snapshots()
	assert.Equal(t, "chat-1", first.ChatID)
	assert.Empty(t, first.Messages)

	second := <-sub.Snapshots()
	require.Len(t, second.Messages, 1)
	assert.Equal(t, "Hello", second.Messages[0].Content)
	assert.Equal(t, "chat-1", second.Messages[0].ChatID)

	// Complete closes the channel with no error.
	_, open := <-sub.Snapshots()
	assert.False(t, open)
	assert.NoError(t, sub.Err())
}

func TestSubscribeCloseTearsDown(t *testing.T) {
	stopped := make(chan wsFrame, 1)
	srv := fakeFeedServer(t, func(conn *websocket.Conn, start wsFrame) {
		for {
			var frame wsFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.Type == msgStop {
				stopped <- frame
				return
			}
		}
	})
	defer srv.Close()

	sc := NewSubscriptionClient(wsURL(srv), StaticToken("tok"))
	sub, err := sc.Subscribe(context.Background(), "chat-1")
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	// Closing twice is fine.
	require.NoError(t, sub.Close())

	select {
	case frame := <-stopped:
		assert.Equal(t, msgStop, frame.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the stop frame")
	}

	// Channel drains out after close.
	for range sub.Snapshots() {
	}
}

func TestSubscribeHandshakeError(t *testing.T) {
	upgrader := websocket.Upgrader{Subprotocols: []string{"graphql-ws"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var init wsFrame
		conn.ReadJSON(&init)
		conn.WriteJSON(wsFrame{Type: msgError})
	}))
	defer srv.Close()

	sc := NewSubscriptionClient(wsURL(srv), StaticToken("bad"))
	_, err := sc.Subscribe(context.Background(), "chat-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
