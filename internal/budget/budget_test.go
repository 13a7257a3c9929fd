package budget

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

var jan15 = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func samplePlan() core.Plan {
	return core.Plan{
		{Month: "Dec 2024", Group: "Food", Category: "Groceries", Assigned: dec("180"), Activity: dec("-180"), Available: dec("0")},
		{Month: "Jan 2025", Group: "Inflow", Category: core.ReadyToAssign, Assigned: dec("0"), Activity: dec("0"), Available: dec("100")},
		{Month: "Jan 2025", Group: "Food", Category: "Groceries", Assigned: dec("200"), Activity: dec("0"), Available: dec("200")},
		{Month: "Jan 2025", Group: "Bills", Category: "Rent", Assigned: dec("800"), Activity: dec("0"), Available: dec("800")},
		{Month: "Jan 2025", Group: "Food", Category: "Eating Out", Assigned: dec("50"), Activity: dec("-10"), Available: dec("40")},
	}
}

func TestRecordExpense(t *testing.T) {
	plan := samplePlan()
	reg := core.Register{{Account: "Cash", Category: "Old", Outflow: dec("1")}}
	entry := NewEntry(jan15, "")

	gotPlan, gotReg, err := RecordExpense(plan, reg, entry, dec("50"), "Groceries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := gotPlan[2]
	if !row.Activity.Equal(dec("-50")) || !row.Available.Equal(dec("150")) {
		t.Fatalf("unexpected row after expense: activity=%s available=%s", row.Activity, row.Available)
	}
	if !row.Assigned.Equal(dec("200")) {
		t.Fatalf("assigned must not change, got %s", row.Assigned)
	}
	if len(gotReg) != 2 {
		t.Fatalf("expected exactly one new register row, got %d rows", len(gotReg))
	}
	r := gotReg[1]
	if r.Account != core.DefaultAccount || r.Group != "Food" || r.Category != "Groceries" {
		t.Fatalf("unexpected register row: %+v", r)
	}
	if core.FormatCurrency(r.Outflow) != "50.00€" || core.FormatCurrency(r.Inflow) != "0.00€" {
		t.Fatalf("unexpected amounts: outflow=%s inflow=%s", r.Outflow, r.Inflow)
	}
	if r.Date.String() != "15/01/2025" {
		t.Fatalf("unexpected date %q", r.Date.String())
	}

	// Inputs are untouched.
	if !reflect.DeepEqual(plan, samplePlan()) {
		t.Fatalf("input plan was modified")
	}
	if len(reg) != 1 {
		t.Fatalf("input register was modified")
	}
}

func TestRecordExpenseOnlyCurrentMonth(t *testing.T) {
	plan := core.Plan{
		{Month: "Dec 2024", Group: "Food", Category: "Groceries", Available: dec("10")},
	}
	_, _, err := RecordExpense(plan, nil, NewEntry(jan15, "Cash"), dec("5"), "Groceries")
	if !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRecordExpenseUnknownCategory(t *testing.T) {
	plan := samplePlan()
	reg := core.Register{}
	gotPlan, gotReg, err := RecordExpense(plan, reg, NewEntry(jan15, "Cash"), dec("5"), "Holidays")
	if !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if !reflect.DeepEqual(gotPlan, plan) || len(gotReg) != 0 {
		t.Fatalf("tables changed on failure")
	}
}

func TestRecordIncome(t *testing.T) {
	plan := samplePlan()
	gotPlan, gotReg, err := RecordIncome(plan, nil, NewEntry(jan15, "Bank"), dec("1250.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotPlan[1].Available.Equal(dec("1350.5")) {
		t.Fatalf("unexpected available %s", gotPlan[1].Available)
	}
	if len(gotReg) != 1 {
		t.Fatalf("expected one register row, got %d", len(gotReg))
	}
	r := gotReg[0]
	if r.Group != core.InflowGroup || r.Category != core.ReadyToAssign || r.Account != "Bank" {
		t.Fatalf("unexpected register row: %+v", r)
	}
	if !r.Inflow.Equal(dec("1250.5")) || !r.Outflow.IsZero() {
		t.Fatalf("unexpected amounts: %+v", r)
	}
}

func TestRecordIncomeWithoutReadyToAssign(t *testing.T) {
	plan := core.Plan{{Month: "Jan 2025", Group: "Food", Category: "Groceries"}}
	gotPlan, gotReg, err := RecordIncome(plan, nil, NewEntry(jan15, "Cash"), dec("10"))
	if !errors.Is(err, core.ErrReadyToAssignNotFound) {
		t.Fatalf("expected ErrReadyToAssignNotFound, got %v", err)
	}
	if !reflect.DeepEqual(gotPlan, plan) || gotReg != nil {
		t.Fatalf("tables changed on failure")
	}
}

func TestMoveMoney(t *testing.T) {
	plan := samplePlan()
	got, err := MoveMoney(plan, "Jan 2025", dec("25"), "Rent", "Groceries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(plan) {
		t.Fatalf("row count changed: %d -> %d", len(plan), len(got))
	}
	if !got[3].Available.Equal(dec("775")) || !got[2].Available.Equal(dec("225")) {
		t.Fatalf("unexpected balances: rent=%s groceries=%s", got[3].Available, got[2].Available)
	}
	if !got[3].Activity.Equal(plan[3].Activity) || !got[2].Activity.Equal(plan[2].Activity) {
		t.Fatalf("activity must not change on transfer")
	}
}

func TestMoveMoneyInvalidCategory(t *testing.T) {
	plan := samplePlan()
	cases := []struct{ from, to string }{
		{"Rent", "Nope"},
		{"Nope", "Rent"},
		{"Groceries", "Groceries "},
	}
	for _, tc := range cases {
		got, err := MoveMoney(plan, "Jan 2025", dec("1"), tc.from, tc.to)
		if !errors.Is(err, core.ErrInvalidCategory) {
			t.Fatalf("%s->%s: expected ErrInvalidCategory, got %v", tc.from, tc.to, err)
		}
		if !reflect.DeepEqual(got, plan) {
			t.Fatalf("%s->%s: plan changed on failure", tc.from, tc.to)
		}
	}
}

func TestOverview(t *testing.T) {
	seq := Overview(samplePlan(), "Jan 2025")
	first := slices.Collect(seq)
	if len(first) != 4 {
		t.Fatalf("expected 4 summaries, got %d", len(first))
	}
	if first[1].Group != "Food" || first[1].Category != "Groceries" || !first[1].Available.Equal(dec("200")) {
		t.Fatalf("unexpected summary: %+v", first[1])
	}

	// Restartable.
	second := slices.Collect(seq)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second iteration differs")
	}

	// Early stop.
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected early stop after 1, got %d", n)
	}
}

func TestOverviewEmptyMonth(t *testing.T) {
	if got := slices.Collect(Overview(samplePlan(), "Mar 2030")); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v", got)
	}
	if got := slices.Collect(Overview(nil, "Jan 2025")); len(got) != 0 {
		t.Fatalf("expected empty sequence for nil plan, got %v", got)
	}
}

func TestCategories(t *testing.T) {
	got := slices.Collect(Categories(samplePlan(), "Jan 2025"))
	want := []core.CategoryGroup{
		{Name: "Inflow", Categories: []string{core.ReadyToAssign}},
		{Name: "Food", Categories: []string{"Groceries", "Eating Out"}},
		{Name: "Bills", Categories: []string{"Rent"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected groups:\n got %+v\nwant %+v", got, want)
	}
	if got := slices.Collect(Categories(samplePlan(), "Feb 2025")); len(got) != 0 {
		t.Fatalf("expected no groups, got %v", got)
	}
}
