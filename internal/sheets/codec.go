package sheets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

// Fixed column schemas. They are written when a table is created and never
// migrated.
var (
	PlanHeader = []string{
		"Month", "Category Group/Category", "Category Group", "Category",
		"Assigned", "Activity", "Available",
	}
	RegisterHeader = []string{
		"Account", "Flag", "Date", "Payee", "Category Group/Category",
		"Category Group", "Category", "Memo", "Outflow", "Inflow",
	}
)

const utf8BOM = "\ufeff"

// EncodePlan renders p as records, header first.
func EncodePlan(p core.Plan) [][]string {
	out := make([][]string, 0, len(p)+1)
	out = append(out, append([]string(nil), PlanHeader...))
	for _, r := range p {
		out = append(out, []string{
			r.Month,
			core.GroupCategory(r.Group, r.Category),
			r.Group,
			r.Category,
			core.FormatAmount(r.Assigned),
			core.FormatAmount(r.Activity),
			core.FormatAmount(r.Available),
		})
	}
	return out
}

// DecodePlan parses records produced by EncodePlan. source names the table
// in FormatError messages. An empty record set is an empty plan.
func DecodePlan(source string, records [][]string) (core.Plan, error) {
	if len(records) == 0 {
		return core.Plan{}, nil
	}
	if err := checkHeader(source, records[0], PlanHeader); err != nil {
		return nil, err
	}
	plan := make(core.Plan, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(PlanHeader) {
			return nil, columnError(source, line, len(rec), len(PlanHeader))
		}
		row := core.PlanRow{Month: rec[0], Group: rec[2], Category: rec[3]}
		var err error
		if row.Assigned, err = amountCell(source, line, "Assigned", rec[4]); err != nil {
			return nil, err
		}
		if row.Activity, err = amountCell(source, line, "Activity", rec[5]); err != nil {
			return nil, err
		}
		if row.Available, err = amountCell(source, line, "Available", rec[6]); err != nil {
			return nil, err
		}
		plan = append(plan, row)
	}
	return plan, nil
}

// EncodeRegister renders r as records, header first. Amounts carry the
// currency suffix.
func EncodeRegister(r core.Register) [][]string {
	out := make([][]string, 0, len(r)+1)
	out = append(out, append([]string(nil), RegisterHeader...))
	for _, t := range r {
		out = append(out, []string{
			t.Account,
			t.Flag,
			t.Date.String(),
			t.Payee,
			core.GroupCategory(t.Group, t.Category),
			t.Group,
			t.Category,
			t.Memo,
			core.FormatCurrency(t.Outflow),
			core.FormatCurrency(t.Inflow),
		})
	}
	return out
}

// DecodeRegister parses records produced by EncodeRegister.
func DecodeRegister(source string, records [][]string) (core.Register, error) {
	if len(records) == 0 {
		return core.Register{}, nil
	}
	if err := checkHeader(source, records[0], RegisterHeader); err != nil {
		return nil, err
	}
	reg := make(core.Register, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(RegisterHeader) {
			return nil, columnError(source, line, len(rec), len(RegisterHeader))
		}
		date, err := core.ParseDate(rec[2])
		if err != nil {
			return nil, &core.FormatError{Source: source, Line: line, Err: err}
		}
		row := core.RegisterRow{
			Account:  rec[0],
			Flag:     rec[1],
			Date:     date,
			Payee:    rec[3],
			Group:    rec[5],
			Category: rec[6],
			Memo:     rec[7],
		}
		if row.Outflow, err = amountCell(source, line, "Outflow", rec[8]); err != nil {
			return nil, err
		}
		if row.Inflow, err = amountCell(source, line, "Inflow", rec[9]); err != nil {
			return nil, err
		}
		reg = append(reg, row)
	}
	return reg, nil
}

func checkHeader(source string, got, want []string) error {
	if len(got) != len(want) {
		return &core.FormatError{Source: source, Line: 1, Err: fmt.Errorf("unexpected header %v, want %v", got, want)}
	}
	for i := range want {
		cell := strings.TrimSpace(got[i])
		if i == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		if cell != want[i] {
			return &core.FormatError{Source: source, Line: 1, Err: fmt.Errorf("unexpected header %v, want %v", got, want)}
		}
	}
	return nil
}

func columnError(source string, line, got, want int) error {
	return &core.FormatError{Source: source, Line: line, Err: fmt.Errorf("got %d columns, want %d", got, want)}
}

func amountCell(source string, line int, column, cell string) (d decimal.Decimal, err error) {
	d, err = core.ParseStoredAmount(cell)
	if err != nil {
		return d, &core.FormatError{Source: source, Line: line, Err: fmt.Errorf("column %s: %w %q", column, err, cell)}
	}
	return d, nil
}
