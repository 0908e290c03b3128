// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the sign-in / sign-up form shown before a session
// exists. Validation mirrors what the auth service enforces so obviously
// bad submissions never hit the network.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/synapsechat/synapse-tui/internal/auth"
	"github.com/synapsechat/synapse-tui/internal/ui/styles"
)

// =============================================================================
// AUTH FORM
// =============================================================================

// AuthMode selects between the two form variants.
type AuthMode int

const (
	// AuthSignIn collects email and password.
	AuthSignIn AuthMode = iota
	// AuthSignUp additionally collects a password confirmation.
	AuthSignUp
)

// field indices within the form
const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
)

// AuthForm is the credential entry form.
type AuthForm struct {
	theme *styles.Theme

	mode    AuthMode
	inputs  []textinput.Model
	focused int

	errText string
	busy    bool

	width  int
	height int
}

// NewAuthForm creates a sign-in form with the email field focused.
func NewAuthForm(theme *styles.Theme) AuthForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.CharLimit = 128
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	return AuthForm{
		theme:  theme,
		mode:   AuthSignIn,
		inputs: []textinput.Model{email, password, confirm},
	}
}

// =============================================================================
// STATE
// =============================================================================

// Mode returns the current form variant.
func (f *AuthForm) Mode() AuthMode {
	return f.mode
}

// ToggleMode switches between sign-in and sign-up, clearing any error.
func (f *AuthForm) ToggleMode() {
	if f.mode == AuthSignIn {
		f.mode = AuthSignUp
	} else {
		f.mode = AuthSignIn
		if f.focused == fieldConfirm {
			f.focusField(fieldPassword)
		}
	}
	f.errText = ""
}

// SetError displays a submission error under the form.
func (f *AuthForm) SetError(text string) {
	f.errText = text
	f.busy = false
}

// SetBusy marks the form as waiting on the auth service.
func (f *AuthForm) SetBusy(busy bool) {
	f.busy = busy
}

// Busy reports whether a submission is in flight.
func (f *AuthForm) Busy() bool {
	return f.busy
}

// SetSize updates the dimensions.
func (f *AuthForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Email returns the entered email.
func (f *AuthForm) Email() string {
	return strings.TrimSpace(f.inputs[fieldEmail].Value())
}

// Password returns the entered password.
func (f *AuthForm) Password() string {
	return f.inputs[fieldPassword].Value()
}

func (f *AuthForm) fieldCount() int {
	if f.mode == AuthSignUp {
		return 3
	}
	return 2
}

func (f *AuthForm) focusField(i int) {
	f.inputs[f.focused].Blur()
	f.focused = i
	f.inputs[f.focused].Focus()
}

// NextField moves focus to the next input, wrapping.
func (f *AuthForm) NextField() {
	f.focusField((f.focused + 1) % f.fieldCount())
}

// PrevField moves focus to the previous input, wrapping.
func (f *AuthForm) PrevField() {
	f.focusField((f.focused + f.fieldCount() - 1) % f.fieldCount())
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the entered credentials locally. A non-nil error is
// user-presentable and the submission should not proceed.
func (f *AuthForm) Validate() error {
	if !auth.ValidateEmail(f.Email()) {
		return auth.ErrInvalidEmail
	}
	if f.mode == AuthSignIn {
		if f.Password() == "" {
			return auth.ErrPasswordTooShort
		}
		return nil
	}
	if !auth.ValidatePassword(f.Password()) {
		return auth.ErrPasswordTooShort
	}
	if f.Password() != f.inputs[fieldConfirm].Value() {
		return auth.ErrPasswordMismatch
	}
	return nil
}

// =============================================================================
// UPDATE / VIEW
// =============================================================================

// Update forwards a message to the focused input.
func (f *AuthForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// View renders the form centered in the available area.
func (f AuthForm) View() string {
	var b strings.Builder

	title := "Sign in"
	switchHint := "ctrl+s: create an account instead"
	if f.mode == AuthSignUp {
		title = "Create account"
		switchHint = "ctrl+s: sign in instead"
	}

	b.WriteString(f.theme.FormTitle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "Confirm"}
	for i := 0; i < f.fieldCount(); i++ {
		label := f.theme.FormLabel.Render(labels[i])
		if i == f.focused {
			label = f.theme.FormFieldFocus.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	if f.busy {
		b.WriteString(f.theme.FormHint.Render("contacting auth service..."))
		b.WriteString("\n")
	} else if f.errText != "" {
		b.WriteString(f.theme.FormError.Render(f.errText))
		b.WriteString("\n")
	}

	b.WriteString(f.theme.FormHint.Render("enter: submit  tab: next field  " + switchHint))

	box := f.theme.FormBox.Render(b.String())

	if f.width > 0 && f.height > 0 {
		return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
