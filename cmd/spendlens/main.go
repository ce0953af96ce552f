package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spendlens/internal/backend"
	"spendlens/internal/cli"
	"spendlens/internal/config"
	applog "spendlens/internal/log"
	"spendlens/internal/services"
)

// app carries what PersistentPreRunE sets up for the subcommands.
type app struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
}

func (a *app) service() *services.ExpenseService {
	return a.backend.Service
}

// close releases the backend. It is safe to call more than once.
func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Cleanup()
	a.backend = nil
	return err
}

// skipBackend marks commands that run without opening storage.
const skipBackend = "skip-backend"

func newRootCmd(a *app) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "spendlens",
		Short: "Personal expense tracker with keyword categorization and insights",
		Long: `spendlens records expenses, suggests a category from the description,
and summarizes where the money goes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				cli.LoadEnvFile(envFile)
			} else {
				cli.LoadEnvFile()
			}

			cfg := config.Load()
			if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
				cfg.LogLevel = f.Value.String()
			}
			if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
				cfg.LogFormat = f.Value.String()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, applog.ComponentCLI)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			if cmd.Annotations[skipBackend] == "true" {
				return nil
			}

			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			res, err := backend.NewFactory(logger.Logger).CreateBackend(cmd.Context(), bcfg)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			a.backend = res
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env)")

	root.AddCommand(
		addCmd(a),
		listCmd(a),
		updateCmd(a),
		deleteCmd(a),
		suggestCmd(a),
		insightsCmd(a),
		categoriesCmd(),
		exportCmd(a),
		authCmd(),
	)
	return root
}

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}
