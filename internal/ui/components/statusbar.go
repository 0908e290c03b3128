// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the single-line footer showing connection mode, the signed-in
// account, pipeline state, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	email   string
	offline bool
	typing  bool
	sending bool
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth updates the bar width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// SetEmail records the signed-in account for display.
func (b *StatusBar) SetEmail(email string) {
	b.email = email
}

// SetOffline records whether the client runs against the local store.
func (b *StatusBar) SetOffline(offline bool) {
	b.offline = offline
}

// SetPipeline records the send pipeline state.
func (b *StatusBar) SetPipeline(sending, typing bool) {
	b.sending = sending
	b.typing = typing
}

// View renders the bar.
func (b StatusBar) View() string {
	var left []string

	if b.offline {
		left = append(left, b.theme.StatusOffline.Render("[offline]"))
	} else {
		left = append(left, b.theme.StatusOnline.Render("[online]"))
	}
	if b.email != "" {
		left = append(left, b.theme.StatusBar.Render(b.email))
	}
	switch {
	case b.sending:
		left = append(left, b.theme.StatusTyping.Render("sending..."))
	case b.typing:
		left = append(left, b.theme.StatusTyping.Render("assistant typing..."))
	}

	hints := []string{
		b.theme.ShortcutKey.Render("ctrl+n") + b.theme.ShortcutDesc.Render(" new"),
		b.theme.ShortcutKey.Render("ctrl+b") + b.theme.ShortcutDesc.Render(" sidebar"),
		b.theme.ShortcutKey.Render("ctrl+c") + b.theme.ShortcutDesc.Render(" quit"),
	}

	leftStr := strings.Join(left, " ")
	rightStr := strings.Join(hints, "  ")

	gap := b.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}

	return b.theme.StatusBar.Width(b.width).Render(
		leftStr + strings.Repeat(" ", gap) + rightStr,
	)
}
