// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, args := parseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("expected CmdTUI, got %v", cmd)
	}
	if args.Offline || args.Debug || args.JSON {
		t.Error("expected all flags false by default")
	}
}

func TestParseCommands(t *testing.T) {
	cases := []struct {
		argv []string
		want Command
	}{
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"chats"}, CmdChats},
		{[]string{"list"}, CmdChats},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"--help"}, CmdHelp},
	}
	for _, tc := range cases {
		cmd, _ := parseArgs(tc.argv)
		if cmd != tc.want {
			t.Errorf("parseArgs(%v) = %v, want %v", tc.argv, cmd, tc.want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"--config", "/tmp/x.toml", "--offline", "--debug", "chats", "--json"})
	if cmd != CmdChats {
		t.Fatalf("expected CmdChats, got %v", cmd)
	}
	if args.ConfigPath != "/tmp/x.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if !args.Offline || !args.Debug || !args.JSON {
		t.Error("expected offline, debug and json flags set")
	}
}

func TestParseFlagsAfterCommand(t *testing.T) {
	cmd, args := parseArgs([]string{"chats", "--json"})
	if cmd != CmdChats || !args.JSON {
		t.Errorf("parseArgs(chats --json) = %v json=%v", cmd, args.JSON)
	}
}

func TestParseExtraArgsKeptRaw(t *testing.T) {
	_, args := parseArgs([]string{"login", "someone@example.com"})
	if len(args.Raw) != 1 || args.Raw[0] != "someone@example.com" {
		t.Errorf("Raw = %v", args.Raw)
	}
}
