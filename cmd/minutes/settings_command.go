package main

import (
	"fmt"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change session settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "language [CODE]",
		Short: "Show or set the transcription language preference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				v, ok, err := store.Get(cmd.Context(), db.KeyLanguage)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(w, "%s (default)\n", assistant.LanguageAuto.DisplayName())
					return nil
				}
				fmt.Fprintln(w, assistant.Language(v).DisplayName())
				return nil
			}

			lang, err := assistant.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			if err := store.Put(cmd.Context(), db.KeyLanguage, string(lang)); err != nil {
				return err
			}
			fmt.Fprintf(w, "Language set to %s\n", lang.DisplayName())
			return nil
		},
	})

	return cmd
}
