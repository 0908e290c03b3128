// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// handlers.go - non-TUI command handlers.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/synapsechat/synapse-tui/internal/api"
	"github.com/synapsechat/synapse-tui/internal/auth"
	"github.com/synapsechat/synapse-tui/internal/config"
	"github.com/synapsechat/synapse-tui/internal/localstore"
	"github.com/synapsechat/synapse-tui/internal/util"
)

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// HandleLogin prompts for credentials on the terminal and persists the
// resulting session.
func HandleLogin(ctx context.Context, args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cfg.Server.Offline {
		return fmt.Errorf("offline mode does not use an account")
	}

	sess := newSession(cfg)
	if err := sess.Restore(ctx); err == nil && sess.IsAuthenticated() {
		if user, ok := sess.CurrentUser(); ok {
			fmt.Printf("Already signed in as %s. Run 'synapse logout' first to switch accounts.\n", user.Email)
			return nil
		}
	}

	email, password, err := promptCredentials()
	if err != nil {
		return err
	}

	if err := sess.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}
	fmt.Printf("Signed in as %s.\n", email)
	return nil
}

// HandleLogout revokes the stored session and removes the session file.
func HandleLogout(ctx context.Context, args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	sess := newSession(cfg)
	if err := sess.Restore(ctx); err != nil || !sess.IsAuthenticated() {
		fmt.Println("No active session.")
		return nil
	}
	sess.SignOut(ctx)
	fmt.Println("Signed out.")
	return nil
}

// promptCredentials reads an email and a hidden password from the terminal.
func promptCredentials() (email, password string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(line)
	if !auth.ValidateEmail(email) {
		return "", "", auth.ErrInvalidEmail
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	return email, string(raw), nil
}

// =============================================================================
// CHATS
// =============================================================================

// HandleChats prints the conversation list, newest first.
func HandleChats(ctx context.Context, args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	svc, closeFn, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	convs, err := svc.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(convs)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations.")
		return nil
	}
	for _, c := range convs {
		title := util.PadWidth(util.TruncateWidth(c.DisplayTitle(), 40), 40)
		fmt.Printf("%s  %-19s  %s\n", title, c.CreatedAt.Format("2006-01-02 15:04:05"), c.ID)
	}
	return nil
}

// =============================================================================
// WIRING
// =============================================================================

func loadConfig(args Args) (config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if args.Offline {
		cfg.Server.Offline = true
	}
	return cfg, nil
}

func newSession(cfg config.Config) *auth.Session {
	client := auth.NewClient(cfg.Auth.URL)
	file := auth.NewSessionFile(cfg.Auth.SessionFile)
	return auth.NewSession(client, file)
}

// buildService returns the data service for the configuration: the local
// sqlite store in offline mode, the remote GraphQL client otherwise. The
// returned func releases whatever the service holds open.
func buildService(ctx context.Context, cfg config.Config) (api.Service, func(), error) {
	if cfg.Server.Offline {
		dir, err := config.Dir()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, nil, err
		}
		store, err := localstore.Open(filepath.Join(dir, "local.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	}

	sess := newSession(cfg)
	if err := sess.Restore(ctx); err != nil || !sess.IsAuthenticated() {
		return nil, nil, fmt.Errorf("not signed in; run 'synapse login' first")
	}
	client := api.NewClient(cfg.Server.GraphQLURL, sess)
	client.SetTimeout(cfg.Server.RequestTimeout)
	return client, func() {}, nil
}
