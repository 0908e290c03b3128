// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer implements the message send pipeline.
//
// Sending is two-phase. Submitting clears the input immediately and
// persists the user message; if that fails the draft is restored so
// nothing typed is ever lost. Once the message is stored, the assistant is
// triggered in a second phase with a typing indicator; the trigger's direct
// response payload is never rendered, because the reply arrives through
// the live subscription feed like every other message.
//
// On a fresh session the first submit creates the conversation before
// anything is persisted, so a conversation only ever exists with at least
// one message on the way.
package composer
