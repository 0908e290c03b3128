// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastManagerAddAndRemove(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("something broke")
	if !m.HasToasts() {
		t.Fatal("manager should have a toast")
	}

	m.RemoveToast(id)
	if m.HasToasts() {
		t.Error("toast should have been removed")
	}
}

func TestToastManagerNewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()

	for i := 0; i < 8; i++ {
		m.AddStatus("toast")
	}
	last := m.AddError("newest")

	toasts := m.GetToasts()
	if len(toasts) != 5 {
		t.Fatalf("len = %d, want capped at 5", len(toasts))
	}
	if toasts[0].ID != last {
		t.Error("newest toast should be first")
	}
}

func TestToastExpiry(t *testing.T) {
	m := NewToastManager()

	toast := NewStatusToast("old news")
	toast.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(toast)
	m.AddStatus("fresh")

	remaining := m.TickToasts()
	if len(remaining) != 1 {
		t.Fatalf("len = %d, want 1 after expiry", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("surviving toast = %q", remaining[0].Message)
	}
}

func TestToastKindsCarryDistinctDurations(t *testing.T) {
	if NewErrorToast("e").Duration <= NewStatusToast("s").Duration {
		t.Error("error toasts should stay visible longer than status toasts")
	}
}

func TestRenderToastIncludesMessage(t *testing.T) {
	out := RenderToast(NewErrorToast("disk full"), 80)
	if !strings.Contains(out, "disk full") {
		t.Error("rendered toast should contain the message")
	}
}

func TestWrapToastText(t *testing.T) {
	wrapped := wrapToastText("one two three four", 9)
	lines := strings.Split(wrapped, "\n")
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %q", wrapped)
	}
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}
}
