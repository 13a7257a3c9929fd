package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"budgetbot/internal/amqp"
	"budgetbot/internal/budget"
	"budgetbot/internal/core"
	applog "budgetbot/internal/log"
	"budgetbot/internal/sheets"
)

// EventPublisher receives a ledger event after every successful mutation.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// BudgetService runs budget operations against a ledger store. Each call
// loads fresh tables, computes the new state and saves it; calls are
// serialised so one process never loses its own updates.
type BudgetService struct {
	mu        sync.Mutex
	store     sheets.LedgerStore
	clock     core.Clock
	publisher EventPublisher
	account   string
}

// NewBudgetService wires a service. publisher may be nil; account defaults
// to core.DefaultAccount.
func NewBudgetService(store sheets.LedgerStore, clock core.Clock, publisher EventPublisher, account string) *BudgetService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if account == "" {
		account = core.DefaultAccount
	}
	return &BudgetService{
		store:     store,
		clock:     clock,
		publisher: publisher,
		account:   account,
	}
}

// Month returns the label of the current month.
func (s *BudgetService) Month() string {
	return core.MonthLabel(s.clock.Now())
}

// RecordExpense spends amount from category in the current month.
func (s *BudgetService) RecordExpense(ctx context.Context, amount decimal.Decimal, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := budget.NewEntry(s.clock.Now(), s.account)
	plan, reg, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}
	plan, reg, err = budget.RecordExpense(plan, reg, entry, amount, category)
	if err != nil {
		return err
	}
	if err := s.saveLedger(ctx, plan, reg); err != nil {
		return err
	}

	ev := amqp.NewLedgerEvent(amqp.KindExpense, entry.Month, amount.String(), entry.Date)
	ev.Account = entry.Account
	ev.Category = category
	s.logChange(ctx, applog.OpExpense, entry.Month, category, amount)
	s.publish(ctx, ev)
	return nil
}

// RecordIncome adds amount to Ready to Assign in the current month.
func (s *BudgetService) RecordIncome(ctx context.Context, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := budget.NewEntry(s.clock.Now(), s.account)
	plan, reg, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}
	plan, reg, err = budget.RecordIncome(plan, reg, entry, amount)
	if err != nil {
		return err
	}
	if err := s.saveLedger(ctx, plan, reg); err != nil {
		return err
	}

	ev := amqp.NewLedgerEvent(amqp.KindIncome, entry.Month, amount.String(), entry.Date)
	ev.Account = entry.Account
	ev.Category = core.ReadyToAssign
	s.logChange(ctx, applog.OpIncome, entry.Month, core.ReadyToAssign, amount)
	s.publish(ctx, ev)
	return nil
}

// MoveMoney moves amount of Available between two categories of the
// current month. Only the plan is rewritten.
func (s *BudgetService) MoveMoney(ctx context.Context, amount decimal.Decimal, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	month := core.MonthLabel(now)
	plan, err := s.store.LoadPlan(ctx)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	plan, err = budget.MoveMoney(plan, month, amount, from, to)
	if err != nil {
		return err
	}
	if err := s.store.SavePlan(ctx, plan); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}

	ev := amqp.NewLedgerEvent(amqp.KindMove, month, amount.String(), now)
	ev.FromCategory = from
	ev.ToCategory = to
	s.logChange(ctx, applog.OpMove, month, from+" -> "+to, amount)
	s.publish(ctx, ev)
	return nil
}

// Overview returns the current month label and its per-category summaries.
func (s *BudgetService) Overview(ctx context.Context) (string, iter.Seq[core.CategorySummary], error) {
	month := s.Month()
	plan, err := s.loadPlan(ctx)
	if err != nil {
		return month, nil, err
	}
	return month, budget.Overview(plan, month), nil
}

// Categories returns the current month label and its category groups.
func (s *BudgetService) Categories(ctx context.Context) (string, iter.Seq[core.CategoryGroup], error) {
	month := s.Month()
	plan, err := s.loadPlan(ctx)
	if err != nil {
		return month, nil, err
	}
	return month, budget.Categories(plan, month), nil
}

func (s *BudgetService) loadPlan(ctx context.Context) (core.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, err := s.store.LoadPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}

func (s *BudgetService) loadLedger(ctx context.Context) (core.Plan, core.Register, error) {
	plan, err := s.store.LoadPlan(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load plan: %w", err)
	}
	reg, err := s.store.LoadRegister(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load register: %w", err)
	}
	return plan, reg, nil
}

// saveLedger writes the plan before the register. Stores that can commit
// both tables atomically do so.
func (s *BudgetService) saveLedger(ctx context.Context, plan core.Plan, reg core.Register) error {
	if c, ok := s.store.(sheets.LedgerCommitter); ok {
		if err := c.SaveLedger(ctx, plan, reg); err != nil {
			return fmt.Errorf("save ledger: %w", err)
		}
		return nil
	}
	if err := s.store.SavePlan(ctx, plan); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	if err := s.store.SaveRegister(ctx, reg); err != nil {
		return fmt.Errorf("save register: %w", err)
	}
	return nil
}

func (s *BudgetService) logChange(ctx context.Context, op, month, category string, amount decimal.Decimal) {
	fields := applog.NewFields().
		WithComponent(applog.ComponentBudget).
		WithOperation(op).
		WithLedgerChange(month, category, core.FormatAmount(amount))
	slog.InfoContext(ctx, "Ledger updated", fields.ToSlice()...)
}

func (s *BudgetService) publish(ctx context.Context, e *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, e); err != nil {
		// The ledger is already saved; the event is best effort.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldEventID, e.ID, "kind", e.Kind, applog.FieldError, err)
	}
}
