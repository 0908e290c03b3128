// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// ROW MODE
// =============================================================================

// RowModeKind enumerates the interaction states a sidebar row can be in.
type RowModeKind int

const (
	// RowDefault is the resting state: the row only responds to selection.
	RowDefault RowModeKind = iota
	// RowEditing means the row's title is being edited inline.
	RowEditing
	// RowConfirmingDelete means the row shows a delete confirmation prompt.
	RowConfirmingDelete
)

// RowMode is the interaction state of a single conversation row. Editing and
// confirming-delete are mutually exclusive by construction: a row holds
// exactly one kind, and the list holds at most one non-default row.
type RowMode struct {
	Kind RowModeKind
	// Draft is the in-progress title text. Only meaningful for RowEditing.
	Draft string
}

// DefaultRowMode returns the resting row state.
func DefaultRowMode() RowMode {
	return RowMode{Kind: RowDefault}
}

// EditingRowMode returns an editing state seeded with the current title.
func EditingRowMode(title string) RowMode {
	return RowMode{Kind: RowEditing, Draft: title}
}

// ConfirmingDeleteRowMode returns the delete confirmation state.
func ConfirmingDeleteRowMode() RowMode {
	return RowMode{Kind: RowConfirmingDelete}
}

// IsDefault reports whether the row is in its resting state.
func (m RowMode) IsDefault() bool {
	return m.Kind == RowDefault
}
