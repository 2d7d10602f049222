package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or rotate the browsing session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current session and its stored values",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			info, err := store.Info(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Session: %s\n", info.ID)
			if !info.CreatedAt.IsZero() {
				fmt.Fprintf(w, "Created: %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(w, "Store: %s\n", store.Path())
			if len(info.Slots) == 0 {
				fmt.Fprintln(w, "No stored values.")
				return nil
			}
			rows := make([][]string, len(info.Slots))
			for i, s := range info.Slots {
				rows[i] = []string{s.Key, s.Value, s.UpdatedAt.Local().Format("2006-01-02 15:04:05")}
			}
			fmt.Fprintln(w, renderTable([]string{"Key", "Value", "Updated"}, rows, nil))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Start a fresh session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Session != "" {
				return errors.New("session is pinned by --session or config; unpin it to start a new one")
			}
			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			id, err := store.NewSession(cmd.Context())
			if err != nil {
				return err
			}
			log := ctx.logger()
			log.Info().Str("session", id).Msg("started new session")
			fmt.Fprintf(cmd.OutOrStdout(), "Started session %s\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget everything stored in the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %s\n", store.Session())
			return nil
		},
	})

	return cmd
}
