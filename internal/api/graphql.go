// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
package api

import (
	"encoding/json"
	"strings"
	"time"
)

// =============================================================================
// GRAPHQL DOCUMENTS
// =============================================================================

// The data service schema is fixed, so the documents are constants rather
// than built at runtime.
const (
	queryListChats = `query {
  chats(order_by: { created_at: desc }) {
    id
    title
    created_at
  }
}`

	mutationCreateChat = `mutation CreateChat($title: String!) {
  insert_chats_one(object: { title: $title }) {
    id
    title
    created_at
  }
}`

	mutationRenameChat = `mutation RenameChat($id: uuid!, $title: String!) {
  update_chats_by_pk(pk_columns: { id: $id }, _set: { title: $title }) {
    id
  }
}`

	mutationDeleteChat = `mutation DeleteChat($id: uuid!) {
  delete_chats_by_pk(id: $id) {
    id
  }
}`

	mutationInsertUserMessage = `mutation InsertUserMessage($chat_id: uuid!, $content: String!) {
  insert_messages_one(object: { chat_id: $chat_id, role: "user", content: $content }) {
    id
  }
}`

	mutationSendMessage = `mutation SendMessage($chat_id: uuid!, $content: String!) {
  sendMessage(chat_id: $chat_id, content: $content) {
    assistant_text
    message_id
  }
}`

	subscriptionMessages = `subscription GetMessages($chatId: uuid!) {
  messages(where: { chat_id: { _eq: $chatId } }, order_by: { created_at: asc }) {
    id
    chat_id
    role
    content
    created_at
  }
}`
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// gqlRequest is the request envelope for queries and mutations.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// gqlResponse is the response envelope. Data stays raw until the caller
// unmarshals it into an operation-specific shape.
type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

// gqlError is a single GraphQL error entry.
type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// wireChat is a conversation row as delivered by the service.
type wireChat struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	CreatedAt wireTime `json:"created_at"`
}

// wireMessage is a message row as delivered by the service.
type wireMessage struct {
	ID        string   `json:"id"`
	ChatID    string   `json:"chat_id"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	CreatedAt wireTime `json:"created_at"`
}

// wireTime parses the service's timestamptz format. The service emits RFC3339
// with fractional seconds; some rows predate the timezone migration and carry
// no offset, so a naive-local fallback is accepted.
type wireTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *wireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse("2006-01-02T15:04:05.999999", s)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}
