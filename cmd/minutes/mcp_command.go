package main

import (
	"github.com/jwulff/minutes/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	var ephemeral bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve meeting tools to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.ephemeral = ephemeral
			client, err := ctx.serviceClient()
			if err != nil {
				return err
			}
			store, session, err := ctx.uiStore()
			if err != nil {
				return err
			}
			log := ctx.logger()
			log.Info().Str("session", session).Msg("serving mcp on stdio")
			return mcpserver.Serve(mcpserver.New(client, store, version, log))
		},
	}
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep session state in memory only")
	return cmd
}
