package main

import (
	"fmt"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"
)

func newTranslationsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translations",
		Short: "Manage translations of secondary-language transcripts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List secondary-language transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				files, err := client.SecondaryFiles(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintln(w, "No secondary-language transcripts.")
					return nil
				}
				for _, f := range files {
					fmt.Fprintln(w, f)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Translate every secondary-language transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				msg, err := client.TranslateSecondary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "file NAME",
		Short: "Translate one transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				res, err := client.Translate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.OriginalFilename, res.TranslatedFilename)
				return nil
			})
		},
	})

	return cmd
}
