package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"budgetbot/internal/amqp"
)

// LogHeader is the header row of the event log tab.
var LogHeader = []string{"Timestamp", "Event ID", "Kind", "Month", "Account", "Amount", "Category", "From", "To"}

// EventAppender writes rows to an append-only log table.
type EventAppender interface {
	EnsureLogHeader(ctx context.Context, header []string) error
	AppendLog(ctx context.Context, row []string) error
}

// EventLogWorker mirrors ledger events into an append-only log table.
type EventLogWorker struct {
	appender EventAppender
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// Option configures an EventLogWorker.
type Option func(*EventLogWorker)

// WithRetry sets how many times an append is attempted and the initial
// back-off between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(w *EventLogWorker) {
		w.attempts = attempts
		w.delay = delay
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *EventLogWorker) {
		w.logger = l
	}
}

func NewEventLogWorker(appender EventAppender, opts ...Option) *EventLogWorker {
	w := &EventLogWorker{
		appender: appender,
		attempts: 5,
		delay:    2 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Prepare makes sure the log table starts with LogHeader.
func (w *EventLogWorker) Prepare(ctx context.Context) error {
	if err := w.appender.EnsureLogHeader(ctx, LogHeader); err != nil {
		return fmt.Errorf("prepare event log: %w", err)
	}
	return nil
}

// HandleLedgerEvent appends e to the log table, retrying with back-off.
// A returned error means the event should be redelivered.
func (w *EventLogWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event", "id", e.ID, "kind", e.Kind, "month", e.Month)

	row := EventRow(e)
	err := retry.Do(
		func() error {
			return w.appender.AppendLog(ctx, row)
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.logger.WarnContext(ctx, "Event log append failed, retrying", "id", e.ID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to append ledger event", "id", e.ID, "error", err)
		return fmt.Errorf("append ledger event %s: %w", e.ID, err)
	}

	w.logger.InfoContext(ctx, "Ledger event logged", "id", e.ID)
	return nil
}

// EventRow lays e out in LogHeader order.
func EventRow(e *amqp.LedgerEvent) []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.ID,
		string(e.Kind),
		e.Month,
		e.Account,
		e.Amount,
		e.Category,
		e.FromCategory,
		e.ToCategory,
	}
}
