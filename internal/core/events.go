package core

import "time"

// EventType names a change to the expense collection.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
)

// ExpenseEvent describes one change. Expense is the record after the change;
// for deletions it is the removed record.
type ExpenseEvent struct {
	Type      EventType
	ID        string
	Expense   Expense
	Timestamp time.Time
}
