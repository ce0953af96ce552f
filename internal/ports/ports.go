// Package ports declares the outbound interfaces the expense service depends on.
package ports

import (
	"context"
	"errors"

	"spendlens/internal/core"
)

// ErrNotFound is returned (wrapped) by repositories for unknown ids.
var ErrNotFound = errors.New("expense not found")

type (
	// ExpenseRepository owns the persisted expense collection.
	ExpenseRepository interface {
		Insert(ctx context.Context, e core.Expense) error
		// Replace swaps the stored record with the same ID for e.
		Replace(ctx context.Context, e core.Expense) error
		Delete(ctx context.Context, id string) error
		Get(ctx context.Context, id string) (core.Expense, error)
		// All returns every stored expense in no particular order.
		All(ctx context.Context) ([]core.Expense, error)
	}

	// EventPublisher announces changes to the collection.
	EventPublisher interface {
		PublishExpenseEvent(ctx context.Context, ev core.ExpenseEvent) error
	}

	// ExpenseExporter writes expenses to an external sheet.
	ExpenseExporter interface {
		AppendExpenses(ctx context.Context, es []core.Expense) error
	}
)
