// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the identity provider client and the session context.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is how long before access token expiry a refresh is forced.
const refreshMargin = 60 * time.Second

// =============================================================================
// SESSION
// =============================================================================

// Session is the injected session context. It owns the current token pair and
// user identity, refreshes the access token before it expires, and persists
// the refresh token for silent restore on the next start.
//
// Session implements api.TokenSource.
type Session struct {
	client *Client
	file   *SessionFile

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         User
}

// NewSession creates a session context. file may be nil for a session that is
// never persisted (tests, one-shot commands).
func NewSession(client *Client, file *SessionFile) *Session {
	return &Session{client: client, file: file}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Restore attempts a silent sign-in from the persisted session file. Returns
// ErrNoSession when nothing is persisted; any other error means the persisted
// refresh token was rejected and has been purged.
func (s *Session) Restore(ctx context.Context) error {
	if s.file == nil {
		return ErrNoSession
	}
	persisted, err := s.file.Load()
	if err != nil {
		return ErrNoSession
	}

	sess, err := s.client.Refresh(ctx, persisted.RefreshToken)
	if err != nil {
		s.file.Purge()
		return err
	}
	s.adopt(sess)
	return nil
}

// SignIn authenticates with credentials and persists the session.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.adopt(sess)
	return nil
}

// SignUp registers a new account and persists its session.
func (s *Session) SignUp(ctx context.Context, email, password string) error {
	sess, err := s.client.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	s.adopt(sess)
	return nil
}

// SignOut revokes the session server-side (best effort) and purges all local
// state.
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	refresh := s.refreshToken
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.user = User{}
	s.mu.Unlock()

	if refresh != "" {
		s.client.SignOut(ctx, refresh)
	}
	if s.file != nil {
		s.file.Purge()
	}
}

// adopt installs a provider session and persists it.
func (s *Session) adopt(sess providerSession) {
	expiry := tokenExpiry(sess.AccessToken)

	s.mu.Lock()
	s.accessToken = sess.AccessToken
	s.refreshToken = sess.RefreshToken
	s.expiresAt = expiry
	s.user = sess.User
	s.mu.Unlock()

	if s.file != nil {
		s.file.Save(PersistedSession{
			RefreshToken: sess.RefreshToken,
			Email:        sess.User.Email,
		})
	}
}

// =============================================================================
// STATE
// =============================================================================

// IsAuthenticated reports whether a session is active.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

// CurrentUser returns the signed-in user, if any.
func (s *Session) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.accessToken != ""
}

// AccessToken implements api.TokenSource. It refreshes the token pair when
// the access token is within refreshMargin of expiry.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.accessToken
	refresh := s.refreshToken
	stale := !s.expiresAt.IsZero() && time.Until(s.expiresAt) < refreshMargin
	s.mu.Unlock()

	if token == "" {
		return "", &AuthError{Message: "not signed in"}
	}
	if !stale || refresh == "" {
		return token, nil
	}

	sess, err := s.client.Refresh(ctx, refresh)
	if err != nil {
		// The old token may still be accepted; let the data service decide.
		return token, nil
	}
	s.adopt(sess)
	return sess.AccessToken, nil
}

// =============================================================================
// JWT EXPIRY
// =============================================================================

// tokenExpiry extracts the exp claim from an access token without verifying
// the signature. The zero time means the expiry is unknown and no proactive
// refresh happens.
func tokenExpiry(accessToken string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
