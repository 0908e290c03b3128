// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"strings"

	"golang.org/x/time/rate"
)

// Sentinel errors returned by Begin. None of them indicate a failure worth
// surfacing loudly; the UI keeps the draft and ignores the submit.
var (
	// ErrEmptyDraft means the draft was blank after trimming.
	ErrEmptyDraft = errors.New("draft is empty")
	// ErrBusy means a send is already in flight.
	ErrBusy = errors.New("send already in progress")
	// ErrRateLimited means submits are arriving faster than allowed.
	ErrRateLimited = errors.New("sending too fast")
)

// Send pacing. Generous enough that no human typist hits it; it exists to
// stop a held-down Enter key from queueing dozens of assistant triggers.
const (
	sendsPerSecond = 2
	sendBurst      = 3
)

// =============================================================================
// COMPOSER
// =============================================================================

// Composer tracks the state of the send pipeline: whether a send is in
// flight, whether the assistant is typing, and the cleared draft held for
// restore on failure. It is owned by the UI loop.
type Composer struct {
	limiter *rate.Limiter

	sending bool
	typing  bool
	draft   string
}

// New creates an idle composer.
func New() *Composer {
	return &Composer{
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendBurst),
	}
}

// =============================================================================
// PIPELINE PHASES
// =============================================================================

// Begin starts a send. The text is trimmed; blank drafts, overlapping
// sends, and rate-limited submits are rejected without side effects. On
// success the trimmed content is returned and held so a failed send can
// restore it, and the caller should clear the visible input immediately.
func (c *Composer) Begin(text string) (string, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return "", ErrEmptyDraft
	}
	if c.sending {
		return "", ErrBusy
	}
	if !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	c.sending = true
	c.draft = content
	return content, nil
}

// Sent marks the user message as persisted and enters the typing phase.
// The held draft is discarded; from here on a failure no longer restores
// the input, because the message is already in the conversation.
func (c *Composer) Sent() {
	c.sending = false
	c.draft = ""
	c.typing = true
}

// Failed aborts the send phase and returns the draft to restore into the
// input.
func (c *Composer) Failed() string {
	c.sending = false
	draft := c.draft
	c.draft = ""
	return draft
}

// AssistantDone ends the typing phase, whether the trigger succeeded or
// not.
func (c *Composer) AssistantDone() {
	c.typing = false
}

// Reset drops all pipeline state. Used when switching conversations
// mid-send.
func (c *Composer) Reset() {
	c.sending = false
	c.typing = false
	c.draft = ""
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sending reports whether a user message is being persisted.
func (c *Composer) Sending() bool {
	return c.sending
}

// Typing reports whether the assistant is being waited on.
func (c *Composer) Typing() bool {
	return c.typing
}

// Busy reports whether either pipeline phase is active.
func (c *Composer) Busy() bool {
	return c.sending || c.typing
}
