// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the synapse data service.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synapsechat/synapse-tui/internal/model"
)

// Configuration constants for the data service client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient is the pooled HTTP client for all data service requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// TOKEN SOURCE
// =============================================================================

// TokenSource supplies the bearer token attached to every request. The auth
// session context implements this; tests supply a static token.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token. Useful in tests and
// for admin-secret setups.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken(ctx context.Context) (string, error) {
	return string(t), nil
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the hosted data service. It implements Service; the
// companion SubscriptionClient implements Subscriber.
type Client struct {
	endpoint   string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a data service client for the given GraphQL endpoint.
func NewClient(endpoint string, tokens TokenSource) *Client {
	return &Client{
		endpoint:   endpoint,
		tokens:     tokens,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// do executes one GraphQL request and unmarshals the data payload into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Message: fmt.Sprintf("data service returned HTTP %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope gqlResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		if first.Extensions.Code == "invalid-jwt" || first.Extensions.Code == "access-denied" {
			return ErrUnauthorized
		}
		return &Error{Message: first.Message}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SERVICE IMPLEMENTATION
// =============================================================================

// ListChats returns all conversations, newest first.
func (c *Client) ListChats(ctx context.Context) ([]model.Conversation, error) {
	var payload struct {
		Chats []wireChat `json:"chats"`
	}
	if err := c.do(ctx, queryListChats, nil, &payload); err != nil {
		return nil, err
	}

	convs := make([]model.Conversation, 0, len(payload.Chats))
	for _, ch := range payload.Chats {
		convs = append(convs, model.Conversation{
			ID:        ch.ID,
			Title:     ch.Title,
			CreatedAt: ch.CreatedAt.Time,
		})
	}
	return convs, nil
}

// CreateChat persists a new conversation.
func (c *Client) CreateChat(ctx context.Context, title string) (model.Conversation, error) {
	var payload struct {
		Inserted wireChat `json:"insert_chats_one"`
	}
	vars := map[string]any{"title": title}
	if err := c.do(ctx, mutationCreateChat, vars, &payload); err != nil {
		return model.Conversation{}, err
	}
	return model.Conversation{
		ID:        payload.Inserted.ID,
		Title:     payload.Inserted.Title,
		CreatedAt: payload.Inserted.CreatedAt.Time,
	}, nil
}

// RenameChat updates a conversation title.
func (c *Client) RenameChat(ctx context.Context, id, title string) error {
	var payload struct {
		Updated *struct {
			ID string `json:"id"`
		} `json:"update_chats_by_pk"`
	}
	vars := map[string]any{"id": id, "title": title}
	if err := c.do(ctx, mutationRenameChat, vars, &payload); err != nil {
		return err
	}
	if payload.Updated == nil {
		return &Error{Message: "conversation not found"}
	}
	return nil
}

// DeleteChat removes a conversation.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	var payload struct {
		Deleted *struct {
			ID string `json:"id"`
		} `json:"delete_chats_by_pk"`
	}
	vars := map[string]any{"id": id}
	if err := c.do(ctx, mutationDeleteChat, vars, &payload); err != nil {
		return err
	}
	if payload.Deleted == nil {
		return &Error{Message: "conversation not found"}
	}
	return nil
}

// InsertUserMessage persists a user-role message.
func (c *Client) InsertUserMessage(ctx context.Context, chatID, content string) (string, error) {
	var payload struct {
		Inserted struct {
			ID string `json:"id"`
		} `json:"insert_messages_one"`
	}
	vars := map[string]any{"chat_id": chatID, "content": content}
	if err := c.do(ctx, mutationInsertUserMessage, vars, &payload); err != nil {
		return "", err
	}
	return payload.Inserted.ID, nil
}

// TriggerAssistant invokes the backend assistant action. The reply arrives
// through the subscription; callers must not render the returned payload.
func (c *Client) TriggerAssistant(ctx context.Context, chatID, content string) (TriggerResult, error) {
	var payload struct {
		Send struct {
			AssistantText string `json:"assistant_text"`
			MessageID     string `json:"message_id"`
		} `json:"sendMessage"`
	}
	vars := map[string]any{"chat_id": chatID, "content": content}
	if err := c.do(ctx, mutationSendMessage, vars, &payload); err != nil {
		return TriggerResult{}, err
	}
	return TriggerResult{
		AssistantText: payload.Send.AssistantText,
		MessageID:     payload.Send.MessageID,
	}, nil
}
