package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventKind names the budget mutation a ledger event reports.
type EventKind string

const (
	KindExpense EventKind = "expense"
	KindIncome  EventKind = "income"
	KindMove    EventKind = "move"
)

// LedgerEvent is published after a budget command changed the ledger.
// Amounts are decimal strings.
type LedgerEvent struct {
	ID           string    `json:"id"`
	Kind         EventKind `json:"kind"`
	Month        string    `json:"month"`
	Account      string    `json:"account,omitempty"`
	Amount       string    `json:"amount"`
	Category     string    `json:"category,omitempty"`
	FromCategory string    `json:"from_category,omitempty"`
	ToCategory   string    `json:"to_category,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event with a fresh id.
func NewLedgerEvent(kind EventKind, month, amount string, at time.Time) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Month:     month,
		Amount:    amount,
		Timestamp: at,
	}
}

// ToJSON converts the message to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and validates an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, errors.New("ledger event: invalid id")
	}
	switch e.Kind {
	case KindExpense, KindIncome, KindMove:
	default:
		return nil, errors.New("ledger event: unknown kind " + string(e.Kind))
	}
	return &e, nil
}
