package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ReadyToAssign is the plan category that receives income.
	ReadyToAssign = "Ready to Assign"
	// InflowGroup is the category group recorded on income register rows.
	InflowGroup = "Inflow"
	// DefaultAccount is used for register rows when no account is configured.
	DefaultAccount = "Cash"
)

type (
	// Date is a register date, stored as dd/mm/yyyy.
	Date struct {
		time.Time
	}

	// PlanRow is one category of one month in the budget plan.
	PlanRow struct {
		Month     string // month label, e.g. "Jan 2025"
		Group     string // category group
		Category  string
		Assigned  decimal.Decimal
		Activity  decimal.Decimal // outflows accumulate negative
		Available decimal.Decimal
	}

	// RegisterRow is one transaction in the register.
	RegisterRow struct {
		Account  string
		Flag     string
		Date     Date
		Payee    string
		Group    string
		Category string
		Memo     string
		Outflow  decimal.Decimal
		Inflow   decimal.Decimal
	}

	// Plan is the monthly budget table in file order.
	Plan []PlanRow

	// Register is the append-only transaction table in file order.
	Register []RegisterRow
)

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrCategoryNotFound      = errors.New("category not found for month")
	ErrInvalidCategory       = errors.New("invalid category for month")
	ErrReadyToAssignNotFound = errors.New("ready to assign category not found for month")
	ErrFileFormat            = errors.New("malformed ledger file")
)

// FormatError reports malformed stored ledger data. Line is 1-based and
// counts the header row; zero means the position is unknown.
type FormatError struct {
	Source string
	Line   int
	Err    error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is makes every FormatError match ErrFileFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFileFormat
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a dd/mm/yyyy register date. An empty string yields the
// zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as dd/mm/yyyy, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// GroupCategory returns the combined "Group: Category" label.
func GroupCategory(group, category string) string {
	if group == "" {
		return category
	}
	return group + ": " + category
}

// Find returns the index of the first row of month whose category matches
// exactly, or -1.
func (p Plan) Find(month, category string) int {
	for i, r := range p {
		if r.Month == month && r.Category == category {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with p.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	return append(Plan(nil), p...)
}

// Clone returns a copy that shares no backing array with r.
func (r Register) Clone() Register {
	if r == nil {
		return nil
	}
	return append(Register(nil), r...)
}

// Equal reports whether both rows hold the same labels and amounts.
func (r PlanRow) Equal(o PlanRow) bool {
	return r.Month == o.Month && r.Group == o.Group && r.Category == o.Category &&
		r.Assigned.Equal(o.Assigned) && r.Activity.Equal(o.Activity) && r.Available.Equal(o.Available)
}

// Equal reports whether both rows hold the same fields and amounts.
func (r RegisterRow) Equal(o RegisterRow) bool {
	return r.Account == o.Account && r.Flag == o.Flag && r.Date.Equal(o.Date.Time) &&
		r.Payee == o.Payee && r.Group == o.Group && r.Category == o.Category && r.Memo == o.Memo &&
		r.Outflow.Equal(o.Outflow) && r.Inflow.Equal(o.Inflow)
}

// Equal compares plans row by row.
func (p Plan) Equal(o Plan) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Equal compares registers row by row.
func (r Register) Equal(o Register) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
