// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const welcomeLogo = `
 ___ _  _ _ _  __ _ ___  ___ ___
/ __| || | ' \/ _' | _ \/ __/ -_)
\__ \_  |_||_\__,_|  _/\__ \___|
|___/__/          |_|  |___/
`

// Welcome is the fresh-session screen shown above the composer when no
// conversation is selected. Typing a first message creates one.
type Welcome struct {
	theme *styles.Theme

	version string
	email   string
	offline bool

	width  int
	height int
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme, version: "dev"}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetEmail records the signed-in account.
func (w *Welcome) SetEmail(email string) {
	w.email = email
}

// SetOffline records whether the client runs against the local store.
func (w *Welcome) SetOffline(offline bool) {
	w.offline = offline
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centered in the available area.
func (w Welcome) View() string {
	var b strings.Builder

	b.WriteString(w.theme.WelcomeLogo.Render(strings.TrimLeft(welcomeLogo, "\n")))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeInfo.Render("synapse " + w.version))
	b.WriteString("\n\n")

	if w.offline {
		b.WriteString(w.theme.WelcomeInfo.Render(styles.RenderWarning("offline mode, replies are canned")))
		b.WriteString("\n")
	} else if w.email != "" {
		b.WriteString(w.theme.WelcomeInfo.Render("signed in as " + w.email))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.theme.WelcomePressKey.Render("type a message to start a new conversation"))

	box := w.theme.WelcomeBox.Render(b.String())

	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
