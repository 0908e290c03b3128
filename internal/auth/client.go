// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the identity provider client and the session context.
package auth

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the auth service client.
const (
	// DefaultTimeout bounds a single auth round trip.
	DefaultTimeout = 15 * time.Second

	// maxResponseSize caps auth response bodies.
	maxResponseSize = 1 * 1024 * 1024
)

// sharedHTTPClient is the pooled HTTP client for all auth requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// TYPES
// =============================================================================

// User is the signed-in identity as reported by the provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tokens is one issued token pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// providerSession is the provider's session payload.
type providerSession struct {
	Tokens
	User User `json:"user"`
}

// AuthError carries the provider's message for failed credentials, unverified
// accounts, and similar. It is shown to the user verbatim.
type AuthError struct {
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrNoSession is returned when no persisted session exists to restore.
var ErrNoSession = &AuthError{Message: "no persisted session"}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the identity provider's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// SignIn exchanges credentials for a session. A provider rejection (bad
// credentials, unverified account) comes back as *AuthError.
func (c *Client) SignIn(ctx context.Context, email, password string) (providerSession, error) {
	return c.sessionCall(ctx, "/signin/email-password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp registers a new account and returns its first session.
func (c *Client) SignUp(ctx context.Context, email, password string) (providerSession, error) {
	return c.sessionCall(ctx, "/signup/email-password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh exchanges a refresh token for a fresh session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (providerSession, error) {
	return c.sessionCall(ctx, "/token", map[string]string{
		"refreshToken": refreshToken,
	})
}

// SignOut revokes a refresh token server-side. Best effort: local state is
// purged regardless of the outcome.
func (c *Client) SignOut(ctx context.Context, refreshToken string) error {
	_, err := c.post(ctx, "/signout", map[string]string{"refreshToken": refreshToken})
	return err
}

// sessionCall posts and decodes a session-bearing response.
func (c *Client) sessionCall(ctx context.Context, path string, body map[string]string) (providerSession, error) {
	data, err := c.post(ctx, path, body)
	if err != nil {
		return providerSession{}, err
	}

	var payload struct {
		Session *providerSession `json:"session"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return providerSession{}, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if payload.Session == nil || payload.Session.AccessToken == "" {
		return providerSession{}, &AuthError{Message: "provider returned no session"}
	}
	return *payload.Session, nil
}

// post executes one auth request and returns the body on 2xx, or the
// provider's error message otherwise.
func (c *Client) post(ctx context.Context, path string, body map[string]string) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := fmt.Sprintf("auth service returned HTTP %d", resp.StatusCode)
		if json.Unmarshal(data, &payload) == nil {
			if payload.Message != "" {
				msg = payload.Message
			} else if payload.Error.Message != "" {
				msg = payload.Error.Message
			}
		}
		return nil, &AuthError{Message: msg}
	}
	return data, nil
}
