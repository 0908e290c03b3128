// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/model"
)

// ErrEmptyTitle is returned by Rename when the proposed title is blank
// after trimming. No network call is made in that case.
var ErrEmptyTitle = errors.New("conversation title cannot be empty")

// ErrNotConfirming is returned by Delete when the row is not in the
// confirming-delete state. Deletion always takes two steps.
var ErrNotConfirming = errors.New("delete not confirmed")

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller performs conversation list operations and tracks per-row edit
// state. At most one row is ever in a non-default mode; entering edit or
// confirm on one row resets every other row.
//
// Mutations refetch the whole list rather than patching the cached copy, so
// the list reflects whatever the server actually holds, including changes
// made by other sessions.
//
// Row state is read on the UI loop during every render and written from
// command goroutines when Rename and Delete resolve, so access to rows is
// guarded by a mutex.
type Controller struct {
	svc api.Service

	mu   sync.Mutex
	rows map[string]model.RowMode
}

// NewController creates a controller backed by the given service.
func NewController(svc api.Service) *Controller {
	return &Controller{
		svc:  svc,
		rows: make(map[string]model.RowMode),
	}
}

// =============================================================================
// ROW MODES
// =============================================================================

// RowMode returns the current mode for a row, default when untouched.
func (c *Controller) RowMode(chatID string) model.RowMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.rows[chatID]; ok {
		return m
	}
	return model.DefaultRowMode()
}

// ActiveRow returns the id of the one row in a non-default mode, if any.
func (c *Controller) ActiveRow() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, m := range c.rows {
		if !m.IsDefault() {
			return id, true
		}
	}
	return "", false
}

// BeginEdit puts a row into editing mode with its title as the initial
// draft. Any other active row drops back to default.
func (c *Controller) BeginEdit(chatID, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAllLocked()
	c.rows[chatID] = model.EditingRowMode(title)
}

// BeginConfirmDelete puts a row into the confirming-delete state. Any other
// active row drops back to default.
func (c *Controller) BeginConfirmDelete(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAllLocked()
	c.rows[chatID] = model.ConfirmingDeleteRowMode()
}

// SetDraft updates the edit draft for a row. Ignored unless the row is
// editing.
func (c *Controller) SetDraft(chatID, draft string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.rows[chatID]
	if !ok || m.Kind != model.RowEditing {
		return
	}
	m.Draft = draft
	c.rows[chatID] = m
}

// Cancel returns a row to default mode, discarding any draft.
func (c *Controller) Cancel(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, chatID)
}

// resetAllLocked clears every row mode. Callers hold mu.
func (c *Controller) resetAllLocked() {
	for id := range c.rows {
		delete(c.rows, id)
	}
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// Refresh fetches the full conversation list.
func (c *Controller) Refresh(ctx context.Context) ([]model.Conversation, error) {
	return c.svc.ListChats(ctx)
}

// Create creates a conversation and returns it along with a fresh copy of
// the list. A blank title falls back to the default title.
func (c *Controller) Create(ctx context.Context, title string) (model.Conversation, []model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultTitle
	}
	conv, err := c.svc.CreateChat(ctx, title)
	if err != nil {
		return model.Conversation{}, nil, err
	}
	convs, err := c.svc.ListChats(ctx)
	if err != nil {
		return conv, nil, err
	}
	return conv, convs, nil
}

// Rename commits the edit draft for a row. Blank titles are rejected
// locally with ErrEmptyTitle and the row stays in editing mode so the user
// can fix the draft. On success the row returns to default and a fresh list
// is returned.
func (c *Controller) Rename(ctx context.Context, chatID, title string) ([]model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if err := c.svc.RenameChat(ctx, chatID, title); err != nil {
		return nil, err
	}
	c.Cancel(chatID)
	return c.svc.ListChats(ctx)
}

// Delete removes a conversation. It only proceeds when the row is in the
// confirming-delete state, so a single keypress can never destroy data. On
// success the row state is cleared and a fresh list is returned.
func (c *Controller) Delete(ctx context.Context, chatID string) ([]model.Conversation, error) {
	if c.RowMode(chatID).Kind != model.RowConfirmingDelete {
		return nil, ErrNotConfirming
	}
	if err := c.svc.DeleteChat(ctx, chatID); err != nil {
		return nil, err
	}
	c.Cancel(chatID)
	return c.svc.ListChats(ctx)
}
