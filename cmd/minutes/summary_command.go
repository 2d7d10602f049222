package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/summary"
	"github.com/spf13/cobra"
)

type summaryJSON struct {
	Status      string   `json:"status"`
	Token       string   `json:"filename"`
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var file string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the summary and action items of the last transcribed meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, store *db.Store) error {
				var src db.SessionStore = store
				if f := strings.TrimSpace(file); f != "" {
					mem := db.NewMemoryStore()
					_ = mem.Put(context.Background(), db.KeyTranscriptToken, f)
					src = mem
				}

				out := summary.NewRetriever(src, client, ctx.logger()).Load(cmd.Context())
				switch out.Status {
				case summary.StatusFailed:
					return errors.New(out.Message())
				case summary.StatusMissingCorrelation:
					if jsonOut {
						return writeJSON(cmd, summaryJSON{Status: out.Status.String()})
					}
					fmt.Fprintln(cmd.OutOrStdout(), out.Message())
					return nil
				}

				if jsonOut {
					return writeJSON(cmd, summaryJSON{
						Status:      out.Status.String(),
						Token:       out.Token,
						Summary:     out.Summary,
						ActionItems: out.ActionItems,
					})
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Summary (%s)\n\n%s\n\n", out.Token, out.Summary)
				if len(out.ActionItems) == 0 {
					fmt.Fprintln(w, "No action items.")
					return nil
				}
				fmt.Fprintln(w, "Action items:")
				for _, item := range out.ActionItems {
					fmt.Fprintf(w, "  • %s\n", item)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Transcript filename (default: the session's last transcription)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
