package google

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
	ports "budgetbot/internal/sheets"
)

func TestToRecordsPadsAndSkipsBlankRows(t *testing.T) {
	values := [][]interface{}{
		{"Month", "Category Group/Category", "Category Group", "Category", "Assigned", "Activity", "Available"},
		{"Jan 2025", "Food: Groceries", "Food", "Groceries", "200.00", "-50.00"},
		{},
		{"", ""},
		{"Jan 2025", "Bills: Rent", "Bills", "Rent", 800, 0, 800},
	}
	got := toRecords(values, 7)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %v", len(got), got)
	}
	if !reflect.DeepEqual(got[1], []string{"Jan 2025", "Food: Groceries", "Food", "Groceries", "200.00", "-50.00", ""}) {
		t.Fatalf("unexpected padded row %v", got[1])
	}
	if got[2][4] != "800" {
		t.Fatalf("numeric cells must be stringified, got %q", got[2][4])
	}

	plan, err := ports.DecodePlan("Plan", got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plan) != 2 || !plan[0].Available.IsZero() || plan[1].Category != "Rent" {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestToRecordsUnformattedNumbers(t *testing.T) {
	values := [][]interface{}{
		{"Month", "Category Group/Category", "Category Group", "Category", "Assigned", "Activity", "Available"},
		{"Jan 2025", "Bills: Rent", "Bills", "Rent", 1200.5, -0.01, 1e6},
		{"Jan 2025", "Food: Groceries", "Food", "Groceries", float64(200), nil, 200.0},
	}
	got := toRecords(values, 7)
	want := [][]string{
		{"Jan 2025", "Bills: Rent", "Bills", "Rent", "1200.5", "-0.01", "1000000"},
		{"Jan 2025", "Food: Groceries", "Food", "Groceries", "200", "", "200"},
	}
	if !reflect.DeepEqual(got[1:], want) {
		t.Fatalf("toRecords() = %v, want %v", got[1:], want)
	}

	plan, err := ports.DecodePlan("Plan", got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !plan[0].Assigned.Equal(decimal.RequireFromString("1200.5")) || !plan[0].Available.Equal(decimal.NewFromInt(1000000)) {
		t.Fatalf("unexpected plan row %+v", plan[0])
	}
}

func TestToRecordsKeepsOverlongRows(t *testing.T) {
	values := [][]interface{}{
		{"Month", "Category Group/Category", "Category Group", "Category", "Assigned", "Activity", "Available", "Extra"},
	}
	_, err := ports.DecodePlan("Plan", toRecords(values, 7))
	if !errors.Is(err, core.ErrFileFormat) {
		t.Fatalf("expected ErrFileFormat, got %v", err)
	}
}

func TestToValues(t *testing.T) {
	got := toValues([][]string{{"a", "b"}})
	if len(got) != 1 || got[0][0] != "a" || got[0][1] != "b" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestColumnName(t *testing.T) {
	cases := map[int]string{0: "A", 1: "A", 7: "G", 10: "J", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for in, want := range cases {
		if got := columnName(in); got != want {
			t.Errorf("columnName(%d) = %q, want %q", in, got, want)
		}
	}
}
