package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spendlens/internal/cli"
	"spendlens/internal/core"
)

func addCmd(a *app) *cobra.Command {
	var (
		amount   string
		category string
		date     string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record an expense",
		Long: `Record an expense. When --category is omitted or set to Other, the
category is suggested from the description.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := core.ParseMoney(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			d, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			e, err := a.service().AddExpense(cmd.Context(), core.NewExpense{
				Description: strings.Join(args, " "),
				Amount:      m,
				Category:    parseCategory(category),
				Date:        d,
				Tags:        tags,
			})
			if err != nil {
				return err
			}
			return cli.RenderExpense(cmd.OutOrStdout(), "Added", e)
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default: suggested)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag, repeatable")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var search, category, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := core.Filter{Search: search, Category: parseCategory(category)}
			var err error
			if from != "" {
				if f.From, err = core.ParseDate(from); err != nil {
					return fmt.Errorf("invalid --from %q: %w", from, err)
				}
			}
			if to != "" {
				if f.To, err = core.ParseDate(to); err != nil {
					return fmt.Errorf("invalid --to %q: %w", to, err)
				}
			}

			es, err := a.service().ListExpenses(cmd.Context(), f)
			if err != nil {
				return err
			}
			return cli.RenderExpenses(cmd.OutOrStdout(), es)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "match descriptions containing this text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().StringVar(&from, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	return cmd
}

func updateCmd(a *app) *cobra.Command {
	var (
		description string
		amount      string
		category    string
		date        string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch core.ExpensePatch
			flags := cmd.Flags()

			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("amount") {
				m, err := core.ParseMoney(amount)
				if err != nil {
					return fmt.Errorf("invalid --amount %q: %w", amount, err)
				}
				patch.Amount = &m
			}
			if flags.Changed("category") {
				c := parseCategory(category)
				manual := false
				patch.Category = &c
				patch.AISuggested = &manual
			}
			if flags.Changed("date") {
				d, err := core.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				patch.Date = &d
			}
			if flags.Changed("tag") {
				patch.Tags = &tags
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one of --description, --amount, --category, --date, --tag")
			}

			e, err := a.service().UpdateExpense(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return cli.RenderExpense(cmd.OutOrStdout(), "Updated", e)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "replace tags, repeatable")
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service().DeleteExpense(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+args[0]))
			return nil
		},
	}
}

// parseCategory maps a known name, or a case-insensitive prefix of exactly one
// known name, to that category. Anything else is kept as typed.
func parseCategory(s string) core.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var match core.Category
	n := 0
	for _, c := range core.Categories() {
		name := string(c)
		if strings.EqualFold(name, s) {
			return c
		}
		if len(name) >= len(s) && strings.EqualFold(name[:len(s)], s) {
			match = c
			n++
		}
	}
	if n == 1 {
		return match
	}
	return core.Category(s)
}

func parseDateFlag(s string) (core.Date, error) {
	if s == "" {
		return core.DateOf(time.Now()), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}
