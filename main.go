// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// synapse is a terminal client for the synapse chat service: a sidebar of
// conversations, a live message feed, and a composer, all in one Bubble Tea
// program. Run with no arguments for the TUI; see 'synapse help' for the
// management commands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/auth"
	"github.com/synapsechat/synapse-tui/internal/cli"
	"github.com/synapsechat/synapse-tui/internal/config"
	"github.com/synapsechat/synapse-tui/internal/localstore"
	"github.com/synapsechat/synapse-tui/internal/ui/chat"
)

func main() {
	cmd, args := cli.Parse()
	ctx := context.Background()

	switch cmd {
	case cli.CmdLogin:
		if err := cli.HandleLogin(ctx, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLogout:
		if err := cli.HandleLogout(ctx, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdChats:
		if err := cli.HandleChats(ctx, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(ctx, args)
	}
}

// runTUI wires the data service and starts the Bubble Tea program.
func runTUI(ctx context.Context, args cli.Args) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.Offline {
		cfg.Server.Offline = true
	}

	if args.Debug {
		dir, err := config.Dir()
		if err == nil {
			f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "synapse")
			if err == nil {
				defer f.Close()
			}
		}
	}

	opts := chat.Options{
		Config:  &cfg,
		Version: cli.Version,
	}

	var cleanup func()
	if cfg.Server.Offline {
		dir, err := config.Dir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store, err := localstore.Open(filepath.Join(dir, "local.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open local store: %v\n", err)
			os.Exit(1)
		}
		cleanup = func() { _ = store.Close() }
		opts.Service = store
		opts.Subscriber = store
	} else {
		authClient := auth.NewClient(cfg.Auth.URL)
		sessFile := auth.NewSessionFile(cfg.Auth.SessionFile)
		sess := auth.NewSession(authClient, sessFile)
		// A failed restore is fine: the auth screen takes over.
		_ = sess.Restore(ctx)

		client := api.NewClient(cfg.Server.GraphQLURL, sess)
		client.SetTimeout(cfg.Server.RequestTimeout)

		opts.AuthSess = sess
		opts.Service = client
		opts.Subscriber = api.NewSubscriptionClient(cfg.Server.SubscriptionURL, sess)
	}
	if cleanup != nil {
		defer cleanup()
	}

	p := tea.NewProgram(
		chat.New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running synapse: %v\n", err)
		os.Exit(1)
	}
}
