package worker

import (
	"context"
	"fmt"

	"spendlens/internal/core"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"
)

// SyncWorker mirrors expense events into an external sheet. Rows are
// appended for creations and updates, so the sheet reads as an audit log.
type SyncWorker struct {
	exporter ports.ExpenseExporter
	logger   *applog.Logger
}

func NewSyncWorker(exporter ports.ExpenseExporter, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncWorker{
		exporter: exporter,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleEvent processes one consumed event. A returned error asks the
// broker to redeliver.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev core.ExpenseEvent) error {
	e := ev.Expense
	fields := applog.NewFields().
		WithOperation(applog.OpSync).
		WithExpense(ev.ID, e.Description, e.Amount.Cents, string(e.Category))

	switch ev.Type {
	case core.EventCreated, core.EventUpdated:
		if err := w.exporter.AppendExpenses(ctx, []core.Expense{e}); err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync expense", fields.WithError(err).ToSlice()...)
			return fmt.Errorf("append %s to sheet: %w", ev.ID, err)
		}
		w.logger.InfoContext(ctx, "Synced expense",
			append(fields.ToSlice(), applog.FieldEventType, string(ev.Type))...)

	case core.EventDeleted:
		// Sheet rows are never removed.
		w.logger.InfoContext(ctx, "Expense deleted, sheet left unchanged", fields.ToSlice()...)

	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event type",
			applog.FieldEventType, string(ev.Type),
			applog.FieldExpenseID, ev.ID)
	}
	return nil
}

// Handler adapts HandleEvent to a plain function, for use as a consumer callback.
func (w *SyncWorker) Handler() func(context.Context, core.ExpenseEvent) error {
	return w.HandleEvent
}

