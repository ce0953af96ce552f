// Package memory is an in-process expense repository.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"spendlens/internal/core"
	"spendlens/internal/ports"
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Expense
}

var _ ports.ExpenseRepository = (*Store)(nil)

func New(seed ...core.Expense) *Store {
	s := &Store{items: make(map[string]core.Expense, len(seed))}
	for _, e := range seed {
		s.items[e.ID] = copyExpense(e)
	}
	return s
}

// NewFromFile seeds the store from a JSON array of expense records. A missing
// file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	seed, err := DecodeExpenses(data)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(seed...), nil
}

func (s *Store) Insert(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; ok {
		return fmt.Errorf("insert expense %s: duplicate id", e.ID)
	}
	s.items[e.ID] = copyExpense(e)
	return nil
}

func (s *Store) Replace(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.items[e.ID]
	if !ok {
		return fmt.Errorf("expense %s: %w", e.ID, ports.ErrNotFound)
	}
	e.CreatedAt = old.CreatedAt
	s.items[e.ID] = copyExpense(e)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, ports.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ports.ErrNotFound)
	}
	return copyExpense(e), nil
}

func (s *Store) All(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, copyExpense(e))
	}
	return out, nil
}

// SaveFile writes the store to path in the format NewFromFile reads,
// oldest first.
func (s *Store) SaveFile(path string) error {
	all, _ := s.All(context.Background())
	core.SortMostRecentFirst(all)
	slices.Reverse(all)

	data, err := EncodeExpenses(all)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func copyExpense(e core.Expense) core.Expense {
	e.Tags = append(make([]string, 0, len(e.Tags)), e.Tags...)
	return e
}

// record is the JSON shape of an expense as kept by the browser client:
// decimal amount, ISO dates, camelCase keys.
type record struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	CreatedAt   string   `json:"createdAt"`
	AISuggested bool     `json:"aiSuggested"`
	Tags        []string `json:"tags"`
}

// DecodeExpenses parses and validates a JSON array of expense records.
func DecodeExpenses(data []byte) ([]core.Expense, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}

	out := make([]core.Expense, 0, len(recs))
	for i, r := range recs {
		date, err := parseRecordDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("record %d: created at: %w", i, err)
		}
		e := core.Expense{
			ID:          r.ID,
			Description: r.Description,
			Amount:      core.Money{Cents: int64(math.Round(r.Amount * 100))},
			Category:    core.Category(r.Category),
			Date:        date,
			CreatedAt:   created,
			AISuggested: r.AISuggested,
			Tags:        core.NormalizeTags(r.Tags),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// EncodeExpenses renders expenses in the same JSON shape DecodeExpenses reads.
func EncodeExpenses(es []core.Expense) ([]byte, error) {
	recs := make([]record, len(es))
	for i, e := range es {
		recs[i] = record{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.Float(),
			Category:    string(e.Category),
			Date:        e.Date.String(),
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
			AISuggested: e.AISuggested,
			Tags:        core.NormalizeTags(e.Tags),
		}
	}
	return json.MarshalIndent(recs, "", "  ")
}

// parseRecordDate accepts a plain date or a full timestamp.
func parseRecordDate(s string) (core.Date, error) {
	if d, err := core.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.DateOf(t), nil
}
