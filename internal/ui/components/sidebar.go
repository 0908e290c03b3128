// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the conversation sidebar. Each row is in one of
// three modes: resting, inline title edit, or delete confirmation. The
// mode machine itself lives in the session controller; the sidebar only
// renders it and owns the inline text input.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/model"
	"github.com/synapsechat/synapse-tui/internal/ui/styles"
	"github.com/synapsechat/synapse-tui/internal/util"
)

// =============================================================================
// SIDEBAR MODEL
// =============================================================================

// Sidebar is the conversation list panel.
type Sidebar struct {
	theme *styles.Theme

	width   int
	height  int
	visible bool

	conversations []model.Conversation
	selectedID    string
	cursor        int

	// RowModeFn reports the interaction mode for a row. Defaults to
	// resting for every row until the chat model wires the controller in.
	RowModeFn func(chatID string) model.RowMode

	editInput textinput.Model
	editingID string
}

// NewSidebar creates a visible sidebar with the given width.
func NewSidebar(theme *styles.Theme, width int) Sidebar {
	input := textinput.New()
	input.CharLimit = 120
	input.Prompt = ""

	return Sidebar{
		theme:     theme,
		width:     width,
		visible:   true,
		editInput: input,
		RowModeFn: func(string) model.RowMode { return model.DefaultRowMode() },
	}
}

// =============================================================================
// STATE
// =============================================================================

// SetConversations installs the list to display, clamping the cursor.
func (s *Sidebar) SetConversations(convs []model.Conversation) {
	s.conversations = convs
	if s.cursor >= len(convs) {
		s.cursor = len(convs) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetSelected marks the active conversation.
func (s *Sidebar) SetSelected(chatID string) {
	s.selectedID = chatID
	for i, c := range s.conversations {
		if c.ID == chatID {
			s.cursor = i
			return
		}
	}
}

// SetSize updates the panel dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Toggle flips visibility.
func (s *Sidebar) Toggle() {
	s.visible = !s.visible
}

// Visible reports whether the sidebar is shown.
func (s *Sidebar) Visible() bool {
	return s.visible
}

// Width returns the rendered width, zero when hidden.
func (s *Sidebar) Width() int {
	if !s.visible {
		return 0
	}
	return s.width
}

// CursorUp moves the cursor one row up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the cursor one row down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.conversations)-1 {
		s.cursor++
	}
}

// CursorConversation returns the conversation under the cursor.
func (s *Sidebar) CursorConversation() (model.Conversation, bool) {
	if s.cursor < 0 || s.cursor >= len(s.conversations) {
		return model.Conversation{}, false
	}
	return s.conversations[s.cursor], true
}

// =============================================================================
// INLINE EDITING
// =============================================================================

// StartEdit focuses the inline input on a row with the given draft.
func (s *Sidebar) StartEdit(chatID, draft string) tea.Cmd {
	s.editingID = chatID
	s.editInput.SetValue(draft)
	s.editInput.CursorEnd()
	return s.editInput.Focus()
}

// StopEdit blurs and clears the inline input.
func (s *Sidebar) StopEdit() {
	s.editingID = ""
	s.editInput.Blur()
	s.editInput.SetValue("")
}

// EditingID returns the row being edited, empty when none.
func (s *Sidebar) EditingID() string {
	return s.editingID
}

// Draft returns the inline input's current text.
func (s *Sidebar) Draft() string {
	return s.editInput.Value()
}

// UpdateInput forwards a message to the inline input.
func (s *Sidebar) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.editInput, cmd = s.editInput.Update(msg)
	return cmd
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the sidebar panel.
func (s Sidebar) View() string {
	if !s.visible {
		return ""
	}

	innerWidth := s.width - 2
	if innerWidth < 8 {
		innerWidth = 8
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(s.conversations) == 0 {
		b.WriteString(s.theme.ChatRowMeta.Render("  no conversations yet"))
	}

	for i, conv := range s.conversations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.renderRow(i, conv, innerWidth))
	}

	panel := s.theme.Sidebar.Width(s.width)
	if s.height > 0 {
		panel = panel.Height(s.height)
	}
	return panel.Render(b.String())
}

func (s Sidebar) renderRow(i int, conv model.Conversation, width int) string {
	mode := s.RowModeFn(conv.ID)

	marker := "  "
	if i == s.cursor {
		marker = "> "
	}

	switch mode.Kind {
	case model.RowEditing:
		return s.theme.ChatRowEditing.Render(marker + s.editInput.View())

	case model.RowConfirmingDelete:
		prompt := s.theme.ConfirmPrompt.Render("delete? ") +
			s.theme.ConfirmDestructive.Render("[y]es") +
			s.theme.ConfirmPrompt.Render(" / [n]o")
		return s.theme.ChatRowConfirming.Render(marker + prompt)

	default:
		title := util.TruncateWidth(conv.DisplayTitle(), width-len(marker))
		style := s.theme.ChatRow
		if conv.ID == s.selectedID {
			style = s.theme.ChatRowSelected
		}
		return style.Render(marker + title)
	}
}
