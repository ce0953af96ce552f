package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"spendlens/internal/core"
)

// ExpenseMessage is the wire form of an expense inside an event.
type ExpenseMessage struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	AmountCents int64    `json:"amount_cents"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	CreatedAt   string   `json:"created_at"`
	AISuggested bool     `json:"ai_suggested"`
	Tags        []string `json:"tags"`
}

// ExpenseEventMessage is published for every change to the expense collection.
type ExpenseEventMessage struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Expense   ExpenseMessage `json:"expense"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewExpenseEventMessage converts a domain event to its wire form.
func NewExpenseEventMessage(ev core.ExpenseEvent) *ExpenseEventMessage {
	e := ev.Expense
	return &ExpenseEventMessage{
		Type: string(ev.Type),
		ID:   ev.ID,
		Expense: ExpenseMessage{
			ID:          e.ID,
			Description: e.Description,
			AmountCents: e.Amount.Cents,
			Category:    string(e.Category),
			Date:        e.Date.String(),
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
			AISuggested: e.AISuggested,
			Tags:        core.NormalizeTags(e.Tags),
		},
		Timestamp: ev.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON parses a message body.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch core.EventType(msg.Type) {
	case core.EventCreated, core.EventUpdated, core.EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event without id")
	}
	return &msg, nil
}

// Event converts the message back to a domain event.
func (m *ExpenseEventMessage) Event() (core.ExpenseEvent, error) {
	x := m.Expense
	ev := core.ExpenseEvent{Type: core.EventType(m.Type), ID: m.ID, Timestamp: m.Timestamp}

	date, err := core.ParseDate(x.Date)
	if err != nil {
		return ev, fmt.Errorf("event %s: %w", m.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, x.CreatedAt)
	if err != nil {
		return ev, fmt.Errorf("event %s: created at: %w", m.ID, err)
	}

	ev.Expense = core.Expense{
		ID:          x.ID,
		Description: x.Description,
		Amount:      core.Money{Cents: x.AmountCents},
		Category:    core.Category(x.Category),
		Date:        date,
		CreatedAt:   created,
		AISuggested: x.AISuggested,
		Tags:        core.NormalizeTags(x.Tags),
	}
	return ev, nil
}
