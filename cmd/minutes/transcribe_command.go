package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jwulff/minutes/internal/assistant"
	"github.com/jwulff/minutes/internal/db"
	"github.com/jwulff/minutes/internal/transcribe"
	"github.com/spf13/cobra"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "transcribe FILE",
		Short: "Upload a recording and print its transcript",
		Long: "Upload a recording to the meeting assistant and wait for the transcript. " +
			"The transcript token is saved in the session so summary and the TUI pick it up.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := expandUserPath(strings.TrimSpace(args[0]))
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("inspect %q: %w", path, err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}

			var lang assistant.Language
			if langFlag != "" {
				if lang, err = assistant.ParseLanguage(langFlag); err != nil {
					return err
				}
			}

			return ctx.withService(func(client *assistant.Client, store *db.Store) error {
				if lang == "" {
					if err := ctx.seedLanguage(cmd.Context(), store); err != nil {
						return err
					}
				}

				unlock, err := ctx.lockWriter()
				if err != nil {
					return err
				}
				defer unlock()

				log := ctx.logger()
				orch := transcribe.New(client, store, transcribe.WithLogger(log))
				if err := orch.Select(cmd.Context(), assistant.NewMediaFile(path)); err != nil {
					return err
				}
				ticket, err := orch.Submit(cmd.Context(), lang)
				if err != nil {
					return err
				}

				var ticks <-chan time.Time
				var observe func(float64)
				if w := progressWriter(cmd.ErrOrStderr()); w != nil {
					var stop func()
					ticks, stop = transcribe.NewTicks(cfg.ProgressInterval)
					defer stop()
					observe = progressLine(w, ticket)
				}

				err = orch.Run(cmd.Context(), ticket, ticks, observe)
				if orch.State() == transcribe.Failed {
					return errors.New(orch.Reason())
				}
				if err != nil {
					return err
				}

				res := orch.Result()
				if jsonOut {
					return writeJSON(cmd, res)
				}
				printTranscript(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&langFlag, "language", "l", "", "Language hint: auto, en, ka, sk, sl, lv (default: session preference)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw transcription result as JSON")
	return cmd
}

// progressLine renders the estimated progress on one rewritten line.
func progressLine(w io.Writer, t transcribe.Ticket) func(float64) {
	return func(p float64) {
		fmt.Fprintf(w, "\rTranscribing %s (%s)... %3.0f%%", t.File.Name, t.Language.EnglishName(), p)
		if p >= 100 {
			fmt.Fprintln(w)
		}
	}
}

func printTranscript(out io.Writer, res *assistant.TranscriptionResult) {
	if len(res.Transcript) == 0 {
		fmt.Fprintln(out, "No speech detected.")
	}
	for _, e := range res.Transcript {
		fmt.Fprintf(out, "%s: %s\n", e.Speaker, e.Text)
	}
	fmt.Fprintln(out)
	if res.TranslationError != "" {
		fmt.Fprintf(out, "Translation failed: %s\n", res.TranslationError)
	}
	fmt.Fprintf(out, "Words: %d  Speakers: %d\n", res.WordCount, res.SpeakerCount)
	fmt.Fprintf(out, "Saved as: %s\n", res.Filename)
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
