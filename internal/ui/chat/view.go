// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/session"
	"github.com/synapsechat/synapse-tui/internal/ui/components"
)

// View renders the whole application.
func (m Model) View() string {
	if m.state == StateAuth {
		return m.authForm.View()
	}

	header := m.renderHeader()
	main := m.renderMain()
	input := m.renderInput()
	status := m.statusbar.View()

	var columns string
	if m.sidebar.Visible() {
		columns = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	} else {
		columns = main
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, header, columns, input, status)

	if m.toasts.HasToasts() {
		// Overlay the toast stack; rendered last so it sits on top.
		overlay := m.renderToasts()
		if overlay != "" {
			screen += "\n" + overlay
		}
	}
	return screen
}

func (m Model) renderHeader() string {
	title := "synapse"
	if conv, ok := m.orch.SelectedConversation(); ok {
		title = conv.DisplayTitle()
	}
	return m.theme.Header.Width(m.width).Render(m.theme.HeaderTitle.Render(title))
}

func (m Model) renderMain() string {
	width := m.width - m.sidebar.Width()

	switch m.activeView() {
	case session.ViewNewSession:
		return m.welcome.View()

	case session.ViewLoading:
		body := m.loading.View()
		if body == "" {
			body = m.theme.ThinkingText.Render("Loading conversation...")
		}
		return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, body)

	case session.ViewEmptyChat:
		hint := m.theme.WelcomePressKey.Render("no messages yet, say something")
		return lipgloss.Place(width, m.viewport.Height, lipgloss.Center, lipgloss.Center, hint)

	default:
		var b strings.Builder
		b.WriteString(m.viewport.View())
		if m.comp.Typing() {
			b.WriteString("\n")
			b.WriteString(m.typing.View())
		}
		return b.String()
	}
}

func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

func (m Model) renderToasts() string {
	toasts := m.toasts.GetToasts()
	if len(toasts) == 0 {
		return ""
	}
	// Render inline under the status bar; a true overlay needs z-ordering
	// lipgloss does not do.
	parts := make([]string, 0, len(toasts))
	for _, t := range toasts {
		parts = append(parts, components.RenderToast(t, m.width))
	}
	return strings.Join(parts, "\n")
}
