// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the identity provider client and the session context.
package auth

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/synapsechat/synapse-tui/internal/util"
)

// =============================================================================
// PERSISTED SESSION
// =============================================================================

// PersistedSession is what survives across program runs. Only the refresh
// token and the email label are stored; access tokens are short-lived and
// re-minted on restore.
type PersistedSession struct {
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
}

// SessionFile persists the session at a fixed path, mode 0600.
type SessionFile struct {
	Path string
}

// NewSessionFile creates a session file handle.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{Path: path}
}

// Load reads the persisted session. ErrNoSession when absent or unreadable.
func (f *SessionFile) Load() (PersistedSession, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return PersistedSession{}, ErrNoSession
	}
	var sess PersistedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return PersistedSession{}, ErrNoSession
	}
	if sess.RefreshToken == "" {
		return PersistedSession{}, ErrNoSession
	}
	return sess, nil
}

// Save writes the persisted session atomically.
func (f *SessionFile) Save(sess PersistedSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(f.Path, data, 0600)
}

// Purge removes the persisted session. Missing files are fine.
func (f *SessionFile) Purge() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// =============================================================================
// LOCAL VALIDATION
// =============================================================================

// MinPasswordLength is the provider's sign-up password policy, enforced
// locally so invalid attempts never reach the network.
const MinPasswordLength = 9

// Validation errors with user-presentable messages.
var (
	ErrInvalidEmail     = errors.New("that does not look like an email address")
	ErrPasswordTooShort = errors.New("password must be at least 9 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidateEmail checks the shape of an email address. Deliberately loose:
// the provider is authoritative, this only catches obvious typos locally.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.ContainsAny(email, " \t") {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// ValidatePassword checks the sign-up password policy.
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}
