package main

import (
	"fmt"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the meeting assistant is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				h, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, h)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Server: %s\n", client.BaseURL())
				fmt.Fprintf(w, "Status: %s\n", h.Status)
				if len(h.Features) > 0 {
					fmt.Fprintf(w, "Features: %s\n", strings.Join(h.Features, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
