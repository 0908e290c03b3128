// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/auth"
	"github.com/synapsechat/synapse-tui/internal/composer"
	"github.com/synapsechat/synapse-tui/internal/config"
	"github.com/synapsechat/synapse-tui/internal/feed"
	"github.com/synapsechat/synapse-tui/internal/session"
	"github.com/synapsechat/synapse-tui/internal/ui/components"
	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// APP STATE
// =============================================================================

// State is the top-level screen the model is showing.
type State int

const (
	// StateAuth shows the sign-in / sign-up form.
	StateAuth State = iota
	// StateChat shows the conversation UI.
	StateChat
)

// focusZone is which region receives keystrokes in StateChat.
type focusZone int

const (
	focusComposer focusZone = iota
	focusSidebar
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole application.
type Model struct {
	ctx context.Context

	// Backend
	cfg        *config.Config
	svc        api.Service
	subscriber api.Subscriber
	authSess   *auth.Session

	// State machines
	state      State
	focus      focusZone
	orch       *session.Orchestrator
	controller *session.Controller
	feed       *feed.Feed
	comp       *composer.Composer

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	sidebar   components.Sidebar
	statusbar components.StatusBar
	welcome   components.Welcome
	authForm  components.AuthForm
	typing    components.Spinner
	loading   components.Spinner
	renderer  *components.MessageRenderer
	toasts    *components.ToastManager

	keyMap KeyMap
}

// Options bundles the dependencies for New.
type Options struct {
	Config     *config.Config
	Service    api.Service
	Subscriber api.Subscriber
	AuthSess   *auth.Session // nil in offline mode
	Version    string
}

// New creates the application model. The starting screen depends on whether
// an authenticated session already exists; offline mode skips auth
// entirely.
func New(ctx context.Context, opts Options) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 4000
	input.Focus()

	vp := viewport.New(80, 20)

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(opts.Version)
	welcome.SetOffline(opts.Config.Server.Offline)

	statusbar := components.NewStatusBar(theme)
	statusbar.SetOffline(opts.Config.Server.Offline)

	m := Model{
		ctx:        ctx,
		cfg:        opts.Config,
		svc:        opts.Service,
		subscriber: opts.Subscriber,
		authSess:   opts.AuthSess,
		state:      StateAuth,
		orch:       session.NewOrchestrator(),
		controller: session.NewController(opts.Service),
		feed:       feed.New(),
		comp:       composer.New(),
		theme:      theme,
		viewport:   vp,
		input:      input,
		sidebar:    components.NewSidebar(theme, opts.Config.UI.SidebarWidth),
		statusbar:  statusbar,
		welcome:    welcome,
		authForm:   components.NewAuthForm(theme),
		typing:     components.NewTypingSpinner(),
		loading:    components.NewSpinner("Loading conversation"),
		renderer:   components.NewMessageRenderer(theme, opts.Config.UI.Markdown),
		toasts:     components.NewToastManager(),
		keyMap:     DefaultKeyMap(),
	}

	m.sidebar.RowModeFn = m.controller.RowMode

	if opts.Config.Server.Offline {
		m.state = StateChat
	} else if opts.AuthSess != nil && opts.AuthSess.IsAuthenticated() {
		m.state = StateChat
		if user, ok := opts.AuthSess.CurrentUser(); ok {
			m.statusbar.SetEmail(user.Email)
			m.welcome.SetEmail(user.Email)
		}
	}

	return m
}

// Init starts the initial data load when a session already exists.
func (m Model) Init() tea.Cmd {
	if m.state == StateChat {
		return session.RefreshCmd(m.ctx, m.controller)
	}
	return textinput.Blink
}

// =============================================================================
// DERIVED STATE
// =============================================================================

// activeView resolves the four-way main view from orchestrator and feed.
func (m *Model) activeView() session.ViewState {
	return m.orch.Resolve(m.feed.Loaded(), m.feed.Len())
}

// refreshTranscript rebuilds the viewport content from the feed.
func (m *Model) refreshTranscript(scrollToBottom bool) {
	m.viewport.SetContent(m.renderer.RenderTranscript(m.feed.Messages()))
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}

// selectConversation makes a conversation active and opens its feed,
// dropping any in-flight send. Used for user-driven switches.
func (m *Model) selectConversation(chatID string) tea.Cmd {
	if chatID == m.orch.SelectedChatID() && m.feed.ChatID() == chatID {
		return nil
	}
	m.comp.Reset()
	return m.openFeed(chatID)
}

// openFeed points selection and the live feed at a conversation without
// touching the send pipeline.
func (m *Model) openFeed(chatID string) tea.Cmd {
	m.orch.Select(chatID)
	m.sidebar.SetSelected(chatID)
	m.feed.Target(chatID)
	m.refreshTranscript(false)
	return tea.Batch(
		feed.SubscribeCmd(m.ctx, m.subscriber, chatID),
		m.loading.Start(),
	)
}

// startNewSession returns to the welcome screen.
func (m *Model) startNewSession() {
	m.orch.StartNewSession()
	m.sidebar.SetSelected("")
	m.feed.Detach()
	m.comp.Reset()
	m.focus = focusComposer
	m.refreshTranscript(false)
}

// toast is a shorthand that also arms the expiry ticker.
func (m *Model) toast(add func() int) tea.Cmd {
	add()
	return components.ToastTickCmd()
}
