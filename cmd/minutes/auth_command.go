package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jwulff/minutes/internal/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token for the meeting assistant",
	}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store an API token in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if token == "" {
				t, err := readToken(cmd)
				if err != nil {
					return err
				}
				token = t
			}
			if err := credentials.Save(cfg.ServerURL, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token stored for %s\n", cfg.ServerURL)
			return nil
		},
	}
	login.Flags().StringVar(&token, "token", "", "Token to store (default: read from stdin)")
	cmd.AddCommand(login)

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := credentials.Delete(cfg.ServerURL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token removed for %s\n", cfg.ServerURL)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the API token comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, source := credentials.Resolve(cfg.ServerURL, cfg.Token)
			fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\nToken: %s\n", cfg.ServerURL, source)
			return nil
		},
	})

	return cmd
}

// readToken reads the token without echo from a terminal, or as one line
// from piped stdin.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no token given")
	}
	return strings.TrimSpace(line), nil
}
