// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the auth-related Bubble Tea messages and commands.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/auth"
)

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// AuthResultMsg reports the outcome of a sign-in or sign-up attempt.
type AuthResultMsg struct {
	Email string
	Err   error
}

// SignedOutMsg reports that the session was revoked and purged.
type SignedOutMsg struct{}

// =============================================================================
// AUTH COMMANDS
// =============================================================================

func signInCmd(ctx context.Context, sess *auth.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := sess.SignIn(ctx, email, password)
		return AuthResultMsg{Email: email, Err: err}
	}
}

func signUpCmd(ctx context.Context, sess *auth.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := sess.SignUp(ctx, email, password)
		return AuthResultMsg{Email: email, Err: err}
	}
}

func signOutCmd(ctx context.Context, sess *auth.Session) tea.Cmd {
	return func() tea.Msg {
		sess.SignOut(ctx)
		return SignedOutMsg{}
	}
}
