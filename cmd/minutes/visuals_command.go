package main

import (
	"errors"
	"fmt"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/visuals"
	"github.com/spf13/cobra"
)

func newVisualsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "visuals",
		Short: "Generate visual summaries of stored meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				var g visuals.Gallery
				items, err := g.Generate(cmd.Context(), client)
				if err != nil {
					return errors.New(serviceMessage(err, "Failed to generate visuals"))
				}
				if jsonOut {
					return writeJSON(cmd, items)
				}

				w := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(w, visuals.MsgNone)
					return nil
				}
				rows := make([][]string, len(items))
				for i, v := range items {
					rows[i] = []string{v.Title, v.Description, v.Image}
				}
				fmt.Fprintln(w, renderTable([]string{"Title", "Description", "Image"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
