// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/model"
	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer renders chat messages as bubbles: user messages on the
// right, assistant messages on the left. Assistant content is optionally
// rendered through glamour as markdown.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer. When markdown is enabled a glamour
// renderer with automatic light/dark styling is prepared; if that fails the
// renderer silently falls back to plain text.
func NewMessageRenderer(theme *styles.Theme, markdown bool) *MessageRenderer {
	r := &MessageRenderer{theme: theme, width: 80}
	if markdown {
		if gr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(72),
		); err == nil {
			r.markdown = gr
		}
	}
	return r
}

// SetWidth updates the available transcript width.
func (r *MessageRenderer) SetWidth(width int) {
	r.width = width
	if r.markdown != nil {
		wrap := r.bubbleWidth() - 4
		if wrap < 20 {
			wrap = 20
		}
		if gr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			r.markdown = gr
		}
	}
}

func (r *MessageRenderer) bubbleWidth() int {
	w := r.width - 8
	if w > 100 {
		w = 100
	}
	if w < 24 {
		w = 24
	}
	return w
}

// Render renders one message as a bubble.
func (r *MessageRenderer) Render(msg model.Message) string {
	switch msg.Role {
	case model.RoleUser:
		bubble := r.theme.UserBubble.MaxWidth(r.bubbleWidth()).Render(msg.Content)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, bubble)
	default:
		content := msg.Content
		if r.markdown != nil {
			if rendered, err := r.markdown.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		return r.theme.AssistantBubble.MaxWidth(r.bubbleWidth()).Render(content)
	}
}

// RenderTranscript renders the full message list with blank lines between
// bubbles.
func (r *MessageRenderer) RenderTranscript(msgs []model.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.Render(m))
	}
	return strings.Join(parts, "\n\n")
}
