// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/composer"
	"github.com/synapsechat/synapse-tui/internal/feed"
	"github.com/synapsechat/synapse-tui/internal/model"
	"github.com/synapsechat/synapse-tui/internal/session"
	"github.com/synapsechat/synapse-tui/internal/ui/components"
	"github.com/synapsechat/synapse-tui/internal/util"
)

// Update is the main event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		if m.state == StateAuth {
			return m.updateAuthKey(msg)
		}
		return m.updateChatKey(msg)

	case AuthResultMsg:
		return m.handleAuthResult(msg)

	case SignedOutMsg:
		m.state = StateAuth
		m.authForm = components.NewAuthForm(m.theme)
		m.authForm.SetSize(m.width, m.height)
		m.orch.SetConversations(nil)
		m.sidebar.SetConversations(nil)
		m.statusbar.SetEmail("")
		m.welcome.SetEmail("")
		m.startNewSession()
		return m, nil

	case session.ChatsRefreshedMsg:
		return m.handleChatsRefreshed(msg)

	case session.ChatCreatedMsg:
		return m.handleChatCreated(msg)

	case session.ChatRenamedMsg:
		return m.handleChatRenamed(msg)

	case session.ChatDeletedMsg:
		return m.handleChatDeleted(msg)

	case composer.SentMsg:
		return m.handleSent(msg)

	case composer.SendFailedMsg:
		draft := m.comp.Failed()
		if draft == "" {
			draft = msg.Draft
		}
		m.input.SetValue(draft)
		m.input.CursorEnd()
		return m, m.toast(func() int { return m.toasts.AddError(errText(msg.Err)) })

	case composer.AssistantDoneMsg:
		m.comp.AssistantDone()
		m.typing.Stop()
		m.statusbar.SetPipeline(m.comp.Sending(), m.comp.Typing())
		if msg.Err != nil {
			return m, m.toast(func() int { return m.toasts.AddError(errText(msg.Err)) })
		}
		return m, nil

	case feed.SubscribedMsg:
		return m.handleSubscribed(msg)

	case feed.SnapshotMsg:
		return m.handleSnapshot(msg)

	case feed.EndedMsg:
		if msg.ChatID == m.feed.ChatID() && msg.Err != nil {
			return m, m.toast(func() int { return m.toasts.AddError("live feed lost: " + errText(msg.Err)) })
		}
		return m, nil

	case components.ToastTickMsg:
		if len(m.toasts.TickToasts()) > 0 {
			return m, components.ToastTickCmd()
		}
		return m, nil

	default:
		// Spinner ticks and other component-internal messages.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)
		m.loading, cmd = m.loading.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	mainWidth := width - m.sidebar.Width()
	contentHeight := height - 4 // header, input, status bar

	m.viewport.Width = mainWidth - 2
	m.viewport.Height = contentHeight
	m.input.Width = mainWidth - 6
	m.sidebar.SetSize(m.cfg.UI.SidebarWidth, contentHeight)
	m.statusbar.SetWidth(width)
	m.welcome.SetSize(mainWidth, contentHeight)
	m.authForm.SetSize(width, height)
	m.renderer.SetWidth(mainWidth - 2)
	m.refreshTranscript(false)
}

// =============================================================================
// AUTH KEYS
// =============================================================================

func (m Model) updateAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.SwitchAuth):
		m.authForm.ToggleMode()
		return m, nil

	case key.Matches(msg, m.keyMap.SwitchFocus):
		m.authForm.NextField()
		return m, nil

	case msg.Type == tea.KeyShiftTab:
		m.authForm.PrevField()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.authForm.Busy() {
			return m, nil
		}
		if err := m.authForm.Validate(); err != nil {
			m.authForm.SetError(err.Error())
			return m, nil
		}
		m.authForm.SetBusy(true)
		if m.authForm.Mode() == components.AuthSignUp {
			return m, signUpCmd(m.ctx, m.authSess, m.authForm.Email(), m.authForm.Password())
		}
		return m, signInCmd(m.ctx, m.authSess, m.authForm.Email(), m.authForm.Password())

	default:
		return m, m.authForm.Update(msg)
	}
}

func (m Model) handleAuthResult(msg AuthResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.authForm.SetError(errText(msg.Err))
		return m, nil
	}
	m.state = StateChat
	m.statusbar.SetEmail(msg.Email)
	m.welcome.SetEmail(msg.Email)
	m.input.Focus()
	return m, session.RefreshCmd(m.ctx, m.controller)
}

// =============================================================================
// CHAT KEYS
// =============================================================================

func (m Model) updateChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.sidebar.Toggle()
		if !m.sidebar.Visible() {
			m.focus = focusComposer
		}
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.startNewSession()
		return m, nil

	case key.Matches(msg, m.keyMap.SignOut):
		if m.authSess == nil {
			return m, nil
		}
		return m, signOutCmd(m.ctx, m.authSess)

	case key.Matches(msg, m.keyMap.SwitchFocus):
		if m.sidebar.Visible() {
			if m.focus == focusComposer {
				m.focus = focusSidebar
				m.input.Blur()
			} else {
				m.focus = focusComposer
				m.input.Focus()
			}
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.updateSidebarKey(msg)
	}
	return m.updateComposerKey(msg)
}

func (m Model) updateComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		content, err := m.comp.Begin(m.input.Value())
		if err != nil {
			// Blank input and double submits are silently ignored; the
			// rate limit gets a visible nudge.
			if errors.Is(err, composer.ErrRateLimited) {
				return m, m.toast(func() int { return m.toasts.AddStatus("slow down a little") })
			}
			return m, nil
		}
		m.input.SetValue("")
		m.statusbar.SetPipeline(true, false)
		return m, composer.SendCmd(m.ctx, m.svc, m.orch.SelectedChatID(), content)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Inline rename swallows every key except commit and cancel.
	if editingID := m.sidebar.EditingID(); editingID != "" {
		switch {
		case key.Matches(msg, m.keyMap.Submit):
			return m, session.RenameCmd(m.ctx, m.controller, editingID, m.sidebar.Draft())
		case key.Matches(msg, m.keyMap.Cancel):
			m.controller.Cancel(editingID)
			m.sidebar.StopEdit()
			return m, nil
		default:
			return m, m.sidebar.UpdateInput(msg)
		}
	}

	// A pending delete confirmation takes the y/n keys.
	if rowID, ok := m.controller.ActiveRow(); ok && m.controller.RowMode(rowID).Kind == model.RowConfirmingDelete {
		switch {
		case key.Matches(msg, m.keyMap.ConfirmYes):
			return m, session.DeleteCmd(m.ctx, m.controller, rowID)
		case key.Matches(msg, m.keyMap.ConfirmNo), key.Matches(msg, m.keyMap.Cancel):
			m.controller.Cancel(rowID)
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sidebar.CursorUp()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.sidebar.CursorDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if conv, ok := m.sidebar.CursorConversation(); ok {
			m.focus = focusComposer
			m.input.Focus()
			return m, m.selectConversation(conv.ID)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.CreateChat):
		return m, session.CreateCmd(m.ctx, m.controller, "")

	case key.Matches(msg, m.keyMap.Rename):
		if conv, ok := m.sidebar.CursorConversation(); ok {
			m.controller.BeginEdit(conv.ID, conv.DisplayTitle())
			return m, m.sidebar.StartEdit(conv.ID, conv.DisplayTitle())
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if conv, ok := m.sidebar.CursorConversation(); ok {
			m.sidebar.StopEdit()
			m.controller.BeginConfirmDelete(conv.ID)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.focus = focusComposer
		m.input.Focus()
		return m, nil

	default:
		return m, nil
	}
}

// =============================================================================
// LIST RESULTS
// =============================================================================

func (m Model) handleChatsRefreshed(msg session.ChatsRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.handleServiceError(msg.Err)
	}
	m.orch.SetConversations(msg.Conversations)
	m.sidebar.SetConversations(m.orch.Conversations())
	if m.orch.IsNewSession() && m.feed.ChatID() != "" {
		// Selection vanished underneath us (deleted elsewhere).
		m.feed.Detach()
		m.comp.Reset()
	}
	m.sidebar.SetSelected(m.orch.SelectedChatID())
	return m, nil
}

func (m Model) handleChatCreated(msg session.ChatCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.handleServiceError(msg.Err)
	}
	m.orch.SetConversations(msg.Conversations)
	m.sidebar.SetConversations(m.orch.Conversations())
	cmd := m.selectConversation(msg.Conversation.ID)
	return m, tea.Batch(cmd, m.toast(func() int { return m.toasts.AddSuccess("conversation created") }))
}

func (m Model) handleChatRenamed(msg session.ChatRenamedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, session.ErrEmptyTitle) {
		// Keep the row editing; the user fixes the draft or cancels.
		return m, m.toast(func() int { return m.toasts.AddStatus("title cannot be empty") })
	}
	if msg.Err != nil {
		return m.handleServiceError(msg.Err)
	}
	m.sidebar.StopEdit()
	m.orch.SetConversations(msg.Conversations)
	m.sidebar.SetConversations(m.orch.Conversations())
	m.sidebar.SetSelected(m.orch.SelectedChatID())
	return m, nil
}

func (m Model) handleChatDeleted(msg session.ChatDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.handleServiceError(msg.Err)
	}
	wasSelected := msg.ChatID == m.orch.SelectedChatID()
	m.orch.HandleDeleted(msg.ChatID)
	if wasSelected {
		m.feed.Detach()
		m.comp.Reset()
	}
	m.orch.SetConversations(msg.Conversations)
	m.sidebar.SetConversations(m.orch.Conversations())
	m.sidebar.SetSelected(m.orch.SelectedChatID())
	return m, m.toast(func() int { return m.toasts.AddSuccess("conversation deleted") })
}

// =============================================================================
// SEND PIPELINE RESULTS
// =============================================================================

func (m Model) handleSent(msg composer.SentMsg) (tea.Model, tea.Cmd) {
	m.comp.Sent()
	m.statusbar.SetPipeline(false, true)

	cmds := []tea.Cmd{
		composer.TriggerCmd(m.ctx, m.svc, msg.ChatID, msg.Content),
		m.typing.Start(),
	}

	if msg.Created != nil {
		// First send of a fresh session: adopt the new conversation and
		// pull the list so the sidebar shows it.
		cmds = append(cmds,
			m.openFeed(msg.Created.ID),
			session.RefreshCmd(m.ctx, m.controller),
			m.toast(func() int { return m.toasts.AddSuccess("new conversation started") }),
		)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// FEED RESULTS
// =============================================================================

func (m Model) handleSubscribed(msg feed.SubscribedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.loading.Stop()
		return m.handleServiceError(msg.Err)
	}
	if !m.feed.Attach(msg.ChatID, msg.Sub) {
		return m, nil
	}
	return m, feed.WaitCmd(msg.ChatID, msg.Sub)
}

func (m Model) handleSnapshot(msg feed.SnapshotMsg) (tea.Model, tea.Cmd) {
	applied, autoScroll := m.feed.Apply(msg.Snapshot)
	if applied {
		m.loading.Stop()
		m.refreshTranscript(autoScroll)
	}
	if sub := m.feed.Subscription(); sub != nil && msg.Snapshot.ChatID == m.feed.ChatID() {
		return m, feed.WaitCmd(m.feed.ChatID(), sub)
	}
	return m, nil
}

// =============================================================================
// ERRORS
// =============================================================================

// handleServiceError routes unauthorized errors back to the auth form and
// everything else to a toast.
func (m Model) handleServiceError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) && m.authSess != nil {
		m.state = StateAuth
		m.authForm = components.NewAuthForm(m.theme)
		m.authForm.SetError("session expired, sign in again")
		m.authForm.SetSize(m.width, m.height)
		m.startNewSession()
		return m, nil
	}
	return m, m.toast(func() int { return m.toasts.AddError(errText(err)) })
}

// errText flattens an error into toast-sized text. Service errors can carry
// multi-line bodies.
func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return util.TruncateRunes(util.SingleLine(err.Error()), 160)
}
