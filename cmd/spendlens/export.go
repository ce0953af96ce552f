package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spendlens/internal/cli"
	gsheet "spendlens/internal/sheets/google"
)

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Append all expenses to the configured Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			x, err := cli.NewExporter(ctx, a.cfg)
			if err != nil {
				return err
			}

			n, err := a.service().Export(ctx, x)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", n, x.SheetName())))
			return nil
		},
	}
}

func authCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access with an OAuth client and save the token",
		Long: `Runs the OAuth consent flow for the client in GOOGLE_OAUTH_CLIENT_JSON or
GOOGLE_OAUTH_CLIENT_FILE and writes the token to GOOGLE_OAUTH_TOKEN_FILE
(default token.json). Add http://localhost:<port>/callback to the client's
authorized redirect URIs first.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipBackend: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientJSON := []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
			if len(clientJSON) == 0 {
				path := os.Getenv("GOOGLE_OAUTH_CLIENT_FILE")
				if path == "" {
					return fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
				}
				b, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read client file: %w", err)
				}
				clientJSON = b
			}

			oc, err := gsheet.OAuthConfig(clientJSON)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			tok, err := gsheet.AuthorizeInteractive(ctx, oc, port, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			out := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
			if out == "" {
				out = "token.json"
			}
			if err := gsheet.SaveToken(out, tok); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved token to "+out))
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "8085", "local port for the OAuth redirect")
	return cmd
}
