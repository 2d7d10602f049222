package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/search"
	"github.com/spf13/cobra"
)

type searchJSON struct {
	Query    string   `json:"query"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Fallback bool     `json:"fallback"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Ask a question across all meetings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(client *assistant.Client, _ *db.Store) error {
				res, err := search.NewClient(client, ctx.logger()).Ask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, searchJSON{
						Query:    res.Query,
						Answer:   res.Answer,
						Sources:  res.Sources,
						Fallback: res.Fallback,
					})
				}

				w := cmd.OutOrStdout()
				fmt.Fprintln(w, res.Answer)
				if len(res.Sources) > 0 {
					rows := make([][]string, len(res.Sources))
					for i, s := range res.Sources {
						rows[i] = []string{strconv.Itoa(i + 1), s}
					}
					fmt.Fprintln(w)
					fmt.Fprintln(w, renderTable([]string{"#", "Source"}, rows, []columnAlignment{alignRight, alignLeft}))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}
