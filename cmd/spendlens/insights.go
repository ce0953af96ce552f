package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendlens/internal/cli"
	"spendlens/internal/core"
)

func suggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Show the category suggested for a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.service().Suggest(strings.Join(args, " "))
			return cli.RenderSuggestion(cmd.OutOrStdout(), r)
		},
	}
}

func insightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "insights",
		Aliases: []string{"dashboard"},
		Short:   "Summarize spending: this month, top categories and the last 6 months",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.service().Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderDashboard(cmd.OutOrStdout(), d)
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the known categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipBackend: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, c := range core.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}
