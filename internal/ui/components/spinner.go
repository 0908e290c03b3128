// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner with a label. It wraps the bubbles spinner
// with ASCII-only frames for maximum terminal compatibility.
type Spinner struct {
	spinner spinner.Model

	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewSpinner creates a spinner with the default line animation.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return Spinner{
		spinner: s,
		message: message,
	}
}

// NewTypingSpinner creates the assistant typing indicator.
func NewTypingSpinner() Spinner {
	s := NewSpinner("Assistant is typing")
	s.spinner.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	return s
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.isActive
}

// SetMessage updates the spinner label.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// SetShowTimer toggles the elapsed time suffix.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Update advances the animation. A nil command is returned when inactive so
// the tick chain stops with the spinner.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with its label.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	text := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)

	out := s.spinner.View() + " " + text.Render(s.message)
	if s.showTimer {
		elapsed := time.Since(s.startTime).Round(time.Second)
		out += " " + lipgloss.NewStyle().Foreground(styles.TextMuted).Render("("+elapsed.String()+")")
	}
	return out
}
