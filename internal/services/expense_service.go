package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spendlens/internal/categorizer"
	"spendlens/internal/core"
	"spendlens/internal/insights"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"
)

// ErrExpenseNotFound is returned when an operation names an unknown expense id.
var ErrExpenseNotFound = errors.New("expense not found")

// Dashboard is the summary shown on the dashboard screen.
type Dashboard struct {
	core.Insights
	ExpenseCount     int
	AISuggestedCount int
}

// Option customizes an ExpenseService.
type Option func(*ExpenseService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *ExpenseService) { s.newID = gen }
}

// WithLogger overrides the logger. The default writes through slog.Default.
func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l }
}

// WithCategorizer replaces the default memoized categorizer.
func WithCategorizer(m *categorizer.Memo) Option {
	return func(s *ExpenseService) { s.categorizer = m }
}

// ExpenseService orchestrates expense operations across the repository,
// the categorizer and the event publisher.
type ExpenseService struct {
	repo        ports.ExpenseRepository
	publisher   ports.EventPublisher
	categorizer *categorizer.Memo
	logger      *applog.Logger
	now         func() time.Time
	newID       func() string
}

// NewExpenseService builds a service. publisher may be nil, in which case
// events are not published.
func NewExpenseService(repo ports.ExpenseRepository, publisher ports.EventPublisher, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.categorizer == nil {
		s.categorizer = categorizer.NewMemo(categorizer.New(), 256, 0)
	}
	if s.logger == nil {
		s.logger = applog.FromDefault(applog.ComponentExpense)
	}
	return s
}

// AddExpense validates input, auto-categorizes when the user left the
// category empty or "Other", then persists and announces the new record.
func (s *ExpenseService) AddExpense(ctx context.Context, in core.NewExpense) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:          s.newID(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		CreatedAt:   s.now(),
		Tags:        core.NormalizeTags(in.Tags),
	}

	if e.Category == "" || e.Category == core.CategoryOther {
		if r := s.categorizer.Categorize(e.Description); r.Accepts(categorizer.AutoAssignThreshold) {
			e.Category = r.Category
			e.AISuggested = true
			s.logger.DebugContext(ctx, "Category suggested",
				applog.FieldOperation, applog.OpCreate,
				applog.FieldCategory, string(r.Category),
				applog.FieldConfidence, r.Confidence)
		}
	}
	if e.Category == "" {
		e.Category = core.CategoryOther
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithExpense(e.ID, e.Description, e.Amount.Cents, string(e.Category)).
		ToSlice()...)
	s.publish(ctx, core.EventCreated, e)
	return e, nil
}

// UpdateExpense merges patch into the stored record.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.repo.Replace(ctx, updated); err != nil {
		return core.Expense{}, s.mapNotFound(id, fmt.Errorf("update expense: %w", err))
	}

	s.logger.InfoContext(ctx, "Expense updated", applog.NewFields().
		WithOperation(applog.OpUpdate).
		WithExpense(updated.ID, updated.Description, updated.Amount.Cents, string(updated.Category)).
		ToSlice()...)
	s.publish(ctx, core.EventUpdated, updated)
	return updated, nil
}

// DeleteExpense removes the record and announces it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapNotFound(id, fmt.Errorf("delete expense: %w", err))
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	s.publish(ctx, core.EventDeleted, current)
	return nil
}

// GetExpense returns a single record.
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.get(ctx, id)
}

// ListExpenses returns matching expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := core.FilterExpenses(all, f)
	s.logger.DebugContext(ctx, "Expenses listed",
		applog.FieldOperation, applog.OpList,
		applog.FieldCount, len(out))
	return out, nil
}

func (s *ExpenseService) ExpensesByCategory(ctx context.Context, c core.Category) ([]core.Expense, error) {
	return s.ListExpenses(ctx, core.Filter{Category: c})
}

// ExpensesByDateRange returns expenses dated between from and to, inclusive.
func (s *ExpenseService) ExpensesByDateRange(ctx context.Context, from, to core.Date) ([]core.Expense, error) {
	return s.ListExpenses(ctx, core.Filter{From: from, To: to})
}

// Suggest runs the categorizer on a description.
func (s *ExpenseService) Suggest(description string) categorizer.Result {
	r := s.categorizer.Categorize(description)
	s.logger.DebugContext(context.Background(), "Category suggestion",
		applog.FieldOperation, applog.OpSuggest,
		applog.FieldCategory, string(r.Category),
		applog.FieldConfidence, r.Confidence)
	return r
}

// LiveSuggestion returns a suggestion only when it is worth showing while typing.
func (s *ExpenseService) LiveSuggestion(description string) (categorizer.Result, bool) {
	return s.categorizer.LiveSuggestion(description)
}

// Dashboard aggregates the whole collection at the current time.
func (s *ExpenseService) Dashboard(ctx context.Context) (Dashboard, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load expenses: %w", err)
	}

	d := Dashboard{
		Insights:     insights.Generate(all, s.now()),
		ExpenseCount: len(all),
	}
	for _, e := range all {
		if e.AISuggested {
			d.AISuggestedCount++
		}
	}
	s.logger.DebugContext(ctx, "Dashboard generated",
		applog.FieldOperation, applog.OpInsights,
		applog.FieldCount, d.ExpenseCount)
	return d, nil
}

// Export pushes every expense, oldest first, to the exporter.
func (s *ExpenseService) Export(ctx context.Context, x ports.ExpenseExporter) (int, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load expenses: %w", err)
	}
	core.SortMostRecentFirst(all)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	if err := x.AppendExpenses(ctx, all); err != nil {
		return 0, fmt.Errorf("export expenses: %w", err)
	}
	s.logger.InfoContext(ctx, "Expenses exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(all))
	return len(all), nil
}

func (s *ExpenseService) get(ctx context.Context, id string) (core.Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.Expense{}, s.mapNotFound(id, fmt.Errorf("get expense: %w", err))
	}
	return e, nil
}

func (s *ExpenseService) mapNotFound(id string, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	return err
}

func (s *ExpenseService) publish(ctx context.Context, t core.EventType, e core.Expense) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping event",
			applog.FieldEventType, string(t))
		return
	}

	ev := core.ExpenseEvent{Type: t, ID: e.ID, Expense: e, Timestamp: s.now()}
	if err := s.publisher.PublishExpenseEvent(ctx, ev); err != nil {
		// The record is already stored.
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldEventType, string(t),
			applog.FieldExpenseID, e.ID,
			applog.FieldError, err)
	}
}
