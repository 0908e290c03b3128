// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for synapse.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdChats
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Offline    bool
	Debug      bool
	JSON       bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `synapse - terminal client for the synapse chat service

Usage:
  synapse                    Start the chat TUI (default)
  synapse login              Sign in and persist the session
  synapse logout             Revoke and forget the session
  synapse chats              List conversations
    --json                   Output as JSON
  synapse version            Print version information
  synapse help               Show this help

Global flags:
  --config <path>            Configuration file (default ~/.synapse/config.toml)
  --offline                  Use the local store, no account needed
  --debug                    Write a debug log to ~/.synapse/debug.log

Environment:
  SYNAPSE_GRAPHQL_URL        Override server.graphql_url
  SYNAPSE_SUBSCRIPTION_URL   Override server.subscription_url
  SYNAPSE_AUTH_URL           Override auth.url
  SYNAPSE_OFFLINE            Override server.offline
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Command, Args) {
	cmd := CmdTUI
	args := Args{}

	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		case "--offline":
			args.Offline = true
		case "--debug":
			args.Debug = true
		case "--json":
			args.JSON = true
		case "-h", "--help":
			return CmdHelp, args
		default:
			rest = append(rest, argv[i])
		}
	}

	if len(rest) > 0 {
		switch rest[0] {
		case "login":
			cmd = CmdLogin
		case "logout":
			cmd = CmdLogout
		case "chats", "list":
			cmd = CmdChats
		case "version", "-v", "--version":
			cmd = CmdVersion
		case "help":
			cmd = CmdHelp
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", rest[0], usageText)
			os.Exit(2)
		}
		rest = rest[1:]
	}

	args.Raw = rest
	return cmd, args
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("synapse %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
