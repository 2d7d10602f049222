package main

import (
	"fmt"

	"github.com/jwulff/minutes/internal/app"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

func newUICommand(ctx *commandContext) *cobra.Command {
	var view string
	var ephemeral bool

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the full-screen interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.ParseView(view)
			if err != nil {
				return err
			}
			ctx.ephemeral = ephemeral
			return runUI(cmd, ctx, v)
		},
	}
	cmd.Flags().StringVar(&view, "view", "upload", "View to open: upload, summary, search, visuals, calendar or settings")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep session state in memory only")
	return cmd
}

func runUI(cmd *cobra.Command, ctx *commandContext, start app.View) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	client, err := ctx.serviceClient()
	if err != nil {
		return err
	}
	store, session, err := ctx.uiStore()
	if err != nil {
		return err
	}
	if err := ctx.seedLanguage(cmd.Context(), store); err != nil {
		return err
	}

	deps := app.Deps{
		Service:      client,
		Store:        store,
		Log:          ctx.logger(),
		TickInterval: cfg.ProgressInterval,
		Start:        start,
		ServerURL:    cfg.ServerURL,
		Session:      session,
	}
	if !ctx.ephemeral {
		deps.LockWriter = ctx.lockWriter
	}

	deps.Log.Info().Str("view", start.String()).Str("session", session).Msg("starting tui")
	p := tea.NewProgram(app.New(deps), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// uiStore is the session store for long-running commands: the SQLite store,
// or a memory store in ephemeral mode.
func (c *commandContext) uiStore() (db.SessionStore, string, error) {
	if c.ephemeral {
		return db.NewMemoryStore(), "ephemeral", nil
	}
	store, err := c.sessionStore()
	if err != nil {
		return nil, "", err
	}
	return store, store.Session(), nil
}
