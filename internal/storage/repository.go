// Package storage persists expenses in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendlens/internal/core"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"

	_ "modernc.org/sqlite"
)

const (
	dateLayout    = "2006-01-02"
	createdLayout = time.RFC3339Nano
)

// SQLiteRepository implements ports.ExpenseRepository.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ExpenseRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const selectColumns = `SELECT id, description, amount_cents, category, date, created_at, ai_suggested, tags FROM expenses`

// Insert stores a new expense.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount_cents, category, date, created_at, ai_suggested, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount.Cents, string(e.Category),
		e.Date.Format(dateLayout), e.CreatedAt.UTC().Format(createdLayout), e.AISuggested, tags)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite", applog.NewFields().
		WithComponent(applog.ComponentStorage).
		WithOperation(applog.OpCreate).
		WithExpense(e.ID, e.Description, e.Amount.Cents, string(e.Category)).
		ToSlice()...)

	return nil
}

// Replace overwrites every mutable column of the stored expense with e's values.
func (r *SQLiteRepository) Replace(ctx context.Context, e core.Expense) error {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount_cents = ?, category = ?, date = ?, ai_suggested = ?, tags = ?
		 WHERE id = ?`,
		e.Description, e.Amount.Cents, string(e.Category), e.Date.Format(dateLayout), e.AISuggested, tags, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, e.ID)
}

// Delete removes the expense with the given id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, id)
}

// Get retrieves a single expense by ID
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// All returns every stored expense, newest date first.
func (r *SQLiteRepository) All(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e                      core.Expense
		category, date, create string
		tags                   string
		cents                  int64
	)
	if err := s.Scan(&e.ID, &e.Description, &cents, &category, &date, &create, &e.AISuggested, &tags); err != nil {
		return core.Expense{}, err
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	createdAt, err := time.Parse(createdLayout, create)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at %q: %w", create, err)
	}

	e.Amount = core.Money{Cents: cents}
	e.Category = core.Category(category)
	e.Date = core.Date{Time: d}
	e.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return core.Expense{}, fmt.Errorf("decode tags: %w", err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, ports.ErrNotFound)
	}
	return nil
}
