package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendlens/internal/amqp"
	"spendlens/internal/categorizer"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"
	"spendlens/internal/services"
	"spendlens/internal/storage"
	"spendlens/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(applog.FieldComponent, applog.ComponentBackend)
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend builds the repository, the optional AMQP publisher and the
// expense service on top of them.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, closeRepo, err := f.createRepository(config)
	if err != nil {
		return nil, err
	}
	cleanups := []CleanupFunc{closeRepo}

	var publisher ports.EventPublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue,
			amqp.Options{MaxElapsed: config.AMQPMaxDial})
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			publisher = client
			cleanups = append(cleanups, client.Close)
		}
	}

	size := config.SuggestionCacheSize
	if size <= 0 {
		size = 256
	}
	memo := categorizer.NewMemo(categorizer.New(), size, config.SuggestionCacheTTL)

	svc := services.NewExpenseService(repo, publisher, services.WithCategorizer(memo))

	return &BackendResult{
		Service:    svc,
		Repository: repo,
		Cleanup:    joinCleanups(cleanups),
	}, nil
}

func (f *DefaultFactory) createRepository(config Config) (ports.ExpenseRepository, CleanupFunc, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil

	case MemoryBackend:
		var (
			store *memory.Store
			err   error
		)
		if config.MemorySeedFile != "" {
			store, err = memory.NewFromFile(config.MemorySeedFile)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to initialize memory backend: %w", err)
			}
		} else {
			store = memory.New()
		}
		f.logger.Info("Initialized memory backend", "seed_file", config.MemorySeedFile)
		return store, func() error {
			if config.MemorySeedFile == "" {
				return nil
			}
			return store.SaveFile(config.MemorySeedFile)
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// joinCleanups runs every cleanup in reverse order and joins their errors.
func joinCleanups(fns []CleanupFunc) CleanupFunc {
	return func() error {
		var errs []error
		for i := len(fns) - 1; i >= 0; i-- {
			if err := fns[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
