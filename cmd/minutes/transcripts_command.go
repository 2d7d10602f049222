package main

import (
	"fmt"
	"strconv"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/spf13/cobra"
)

func newTranscriptsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "transcripts",
		Short: "List transcripts stored by the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				list, err := client.Transcripts(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, list)
				}

				w := cmd.OutOrStdout()
				if len(list.Transcripts) == 0 {
					fmt.Fprintln(w, "No transcripts stored.")
					return nil
				}
				rows := make([][]string, 0, len(list.Transcripts))
				for _, t := range list.Transcripts {
					translated := "-"
					if t.HasTranslation {
						translated = t.TranslatedFilename
					}
					rows = append(rows, []string{
						t.Filename,
						t.Language,
						strconv.Itoa(t.WordCount),
						strconv.Itoa(t.SpeakerCount),
						yesNo(t.HasSummary),
						translated,
						t.CreatedAt,
					})
				}
				fmt.Fprintln(w, renderTable(
					[]string{"Filename", "Language", "Words", "Speakers", "Summary", "Translation", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignCenter},
				))
				fmt.Fprintf(w, "%d transcripts\n", list.Total)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
