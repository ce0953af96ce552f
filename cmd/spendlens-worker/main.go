package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"spendlens/internal/amqp"
	"spendlens/internal/cli"
	applog "spendlens/internal/log"
	"spendlens/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, applog.ComponentWorker)
	if err != nil {
		return err
	}
	if !cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is required for the worker")
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.InfoContext(ctx, "Starting spendlens-worker", applog.FieldOperation, applog.OpStartup)

	exporter, err := cli.NewExporter(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		amqp.Options{MaxElapsed: cfg.AMQPMaxDial})
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}

	syncWorker := worker.NewSyncWorker(exporter, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, syncWorker.Handler())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "Shutting down", applog.FieldOperation, applog.OpShutdown)
		return client.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.InfoContext(ctx, "spendlens-worker stopped")
	return nil
}
