// Package budget computes plan and register updates for budget commands.
//
// Every function here is pure: the input tables are never modified and the
// returned tables share no backing arrays with them, so a failed operation
// leaves the caller's state untouched.
package budget

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

// Entry describes where a mutation lands: the plan month it applies to and
// the register date and account of any transaction it records.
type Entry struct {
	Month   string
	Date    time.Time
	Account string
}

// NewEntry builds the entry for the instant now.
func NewEntry(now time.Time, account string) Entry {
	if account == "" {
		account = core.DefaultAccount
	}
	return Entry{Month: core.MonthLabel(now), Date: now, Account: account}
}

// RecordExpense spends amount from category in the entry month.
func RecordExpense(plan core.Plan, reg core.Register, e Entry, amount decimal.Decimal, category string) (core.Plan, core.Register, error) {
	i := plan.Find(e.Month, category)
	if i < 0 {
		return plan, reg, core.ErrCategoryNotFound
	}

	next := plan.Clone()
	next[i].Activity = next[i].Activity.Sub(amount)
	next[i].Available = next[i].Available.Sub(amount)

	row := core.RegisterRow{
		Account:  e.Account,
		Date:     core.DateOf(e.Date),
		Group:    next[i].Group,
		Category: category,
		Outflow:  amount,
		Inflow:   decimal.Zero,
	}
	return next, appendRow(reg, row), nil
}

// RecordIncome adds amount to Ready to Assign in the entry month.
func RecordIncome(plan core.Plan, reg core.Register, e Entry, amount decimal.Decimal) (core.Plan, core.Register, error) {
	i := plan.Find(e.Month, core.ReadyToAssign)
	if i < 0 {
		return plan, reg, core.ErrReadyToAssignNotFound
	}

	next := plan.Clone()
	next[i].Available = next[i].Available.Add(amount)

	row := core.RegisterRow{
		Account:  e.Account,
		Date:     core.DateOf(e.Date),
		Group:    core.InflowGroup,
		Category: core.ReadyToAssign,
		Outflow:  decimal.Zero,
		Inflow:   amount,
	}
	return next, appendRow(reg, row), nil
}

// MoveMoney moves amount of Available from one category to another within
// month. Activity is left alone and no register row is produced.
func MoveMoney(plan core.Plan, month string, amount decimal.Decimal, from, to string) (core.Plan, error) {
	fi := plan.Find(month, from)
	ti := plan.Find(month, to)
	if fi < 0 || ti < 0 {
		return plan, core.ErrInvalidCategory
	}

	next := plan.Clone()
	next[fi].Available = next[fi].Available.Sub(amount)
	next[ti].Available = next[ti].Available.Add(amount)
	return next, nil
}

// Overview yields one summary per plan row of month, in table order.
// The sequence can be ranged over any number of times.
func Overview(plan core.Plan, month string) iter.Seq[core.CategorySummary] {
	return func(yield func(core.CategorySummary) bool) {
		for _, r := range plan {
			if r.Month != month {
				continue
			}
			s := core.CategorySummary{
				Group:     r.Group,
				Category:  r.Category,
				Assigned:  r.Assigned,
				Activity:  r.Activity,
				Available: r.Available,
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Categories yields the category groups of month in first-seen order, each
// with its categories in table order.
func Categories(plan core.Plan, month string) iter.Seq[core.CategoryGroup] {
	return func(yield func(core.CategoryGroup) bool) {
		seen := make(map[string]struct{})
		for _, r := range plan {
			if r.Month != month {
				continue
			}
			if _, ok := seen[r.Group]; ok {
				continue
			}
			seen[r.Group] = struct{}{}

			g := core.CategoryGroup{Name: r.Group}
			for _, c := range plan {
				if c.Month == month && c.Group == r.Group {
					g.Categories = append(g.Categories, c.Category)
				}
			}
			if !yield(g) {
				return
			}
		}
	}
}

func appendRow(reg core.Register, row core.RegisterRow) core.Register {
	next := make(core.Register, len(reg), len(reg)+1)
	copy(next, reg)
	return append(next, row)
}
