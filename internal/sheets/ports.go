package sheets

import (
	"context"

	"budgetbot/internal/core"
)

// Ports for outbound ledger adapters.
type (
	// PlanStore loads and rewrites the whole plan table.
	PlanStore interface {
		// LoadPlan reads the plan from durable storage, creating an empty
		// table with the plan header when none exists.
		LoadPlan(ctx context.Context) (core.Plan, error)
		// SavePlan replaces the stored plan with p.
		SavePlan(ctx context.Context, p core.Plan) error
	}

	// RegisterStore loads and rewrites the whole register table.
	RegisterStore interface {
		LoadRegister(ctx context.Context) (core.Register, error)
		SaveRegister(ctx context.Context, r core.Register) error
	}

	// LedgerStore is the storage every budget command runs against.
	LedgerStore interface {
		PlanStore
		RegisterStore
	}

	// LedgerCommitter is implemented by stores that can persist both tables
	// atomically.
	LedgerCommitter interface {
		SaveLedger(ctx context.Context, p core.Plan, r core.Register) error
	}
)
