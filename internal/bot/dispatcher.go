// Package bot turns chat commands into budget operations and replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
	applog "budgetbot/internal/log"
)

// Ledger is the set of budget operations the dispatcher drives.
type Ledger interface {
	RecordExpense(ctx context.Context, amount decimal.Decimal, category string) error
	RecordIncome(ctx context.Context, amount decimal.Decimal) error
	MoveMoney(ctx context.Context, amount decimal.Decimal, from, to string) error
	Overview(ctx context.Context) (string, iter.Seq[core.CategorySummary], error)
	Categories(ctx context.Context) (string, iter.Seq[core.CategoryGroup], error)
}

// Reply is the text sent back for one command.
type Reply struct {
	Text     string
	Markdown bool
}

// ArgumentError reports a command called with missing or malformed
// arguments. Its message is the command's usage line.
type ArgumentError struct {
	Command string
	Usage   string
}

func (e *ArgumentError) Error() string {
	return e.Usage
}

// Dispatcher maps commands to ledger operations.
type Dispatcher struct {
	ledger Ledger
	logger *slog.Logger
}

func NewDispatcher(ledger Ledger, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{ledger: ledger, logger: logger}
}

// Dispatch runs command with its whitespace-separated args. User mistakes
// (bad arguments, unknown categories) come back as replies; any other
// error, such as a malformed ledger file, is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, command string, args []string) (Reply, error) {
	command = strings.TrimPrefix(strings.ToLower(command), "/")

	var (
		reply Reply
		err   error
	)
	switch command {
	case "add":
		reply, err = d.add(ctx, args)
	case "income":
		reply, err = d.income(ctx, args)
	case "move":
		reply, err = d.move(ctx, args)
	case "overview":
		reply, err = d.overview(ctx)
	case "categories":
		reply, err = d.categories(ctx)
	default:
		reply = Reply{Text: helpText}
	}

	var argErr *ArgumentError
	switch {
	case err == nil:
		d.logger.InfoContext(ctx, "Command handled", applog.FieldCommand, command, "args", len(args))
		return reply, nil
	case errors.As(err, &argErr):
		d.logger.InfoContext(ctx, "Command rejected", applog.FieldCommand, command, "reason", "usage")
		return Reply{Text: argErr.Usage}, nil
	case errors.Is(err, core.ErrCategoryNotFound):
		return Reply{Text: fmt.Sprintf("Category '%s' not found for the current month.", strings.Join(args[1:], " "))}, nil
	case errors.Is(err, core.ErrInvalidCategory):
		return Reply{Text: "Invalid category for the current month."}, nil
	case errors.Is(err, core.ErrReadyToAssignNotFound):
		return Reply{Text: "Category 'Ready to Assign' not found for the current month."}, nil
	default:
		d.logger.ErrorContext(ctx, "Command failed", applog.FieldCommand, command, applog.FieldError, err)
		return Reply{}, fmt.Errorf("%s: %w", command, err)
	}
}

func (d *Dispatcher) add(ctx context.Context, args []string) (Reply, error) {
	if len(args) < 2 {
		return Reply{}, argumentError("add")
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return Reply{}, argumentError("add")
	}
	category := strings.Join(args[1:], " ")
	if err := d.ledger.RecordExpense(ctx, amount, category); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Expense of %s added to %s.", core.FormatAmount(amount), category)}, nil
}

func (d *Dispatcher) income(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, argumentError("income")
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return Reply{}, argumentError("income")
	}
	if err := d.ledger.RecordIncome(ctx, amount); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Income of %s added to '%s'.", core.FormatAmount(amount), core.ReadyToAssign)}, nil
}

func (d *Dispatcher) move(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 3 {
		return Reply{}, argumentError("move")
	}
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		return Reply{}, argumentError("move")
	}
	from, to := args[1], args[2]
	if err := d.ledger.MoveMoney(ctx, amount, from, to); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Moved %s from %s to %s.", core.FormatAmount(amount), from, to)}, nil
}

func (d *Dispatcher) overview(ctx context.Context) (Reply, error) {
	month, rows, err := d.ledger.Overview(ctx)
	if err != nil {
		return Reply{}, err
	}
	text, ok := formatOverview(month, rows)
	if !ok {
		return Reply{Text: "No data for the current month."}, nil
	}
	return Reply{Text: text, Markdown: true}, nil
}

func (d *Dispatcher) categories(ctx context.Context) (Reply, error) {
	_, groups, err := d.ledger.Categories(ctx)
	if err != nil {
		return Reply{}, err
	}
	text, ok := formatCategories(groups)
	if !ok {
		return Reply{Text: "No categories found for the current month."}, nil
	}
	return Reply{Text: text, Markdown: true}, nil
}

func argumentError(command string) error {
	return &ArgumentError{Command: command, Usage: usage(command)}
}
