package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

func newRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestNewRepositoryMigrates(t *testing.T) {
	_, path := newRepo(t)
	v, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
	// Running again is a no-op.
	if err := RunMigrations(path); err != nil {
		t.Fatalf("rerun migrations: %v", err)
	}
}

func TestEmptyLedger(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	plan, err := repo.LoadPlan(ctx)
	if err != nil || len(plan) != 0 {
		t.Fatalf("expected empty plan, got %v (err=%v)", plan, err)
	}
	reg, err := repo.LoadRegister(ctx)
	if err != nil || len(reg) != 0 {
		t.Fatalf("expected empty register, got %v (err=%v)", reg, err)
	}
}

func TestSaveLedgerRoundTrip(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	plan := core.Plan{
		{Month: "Jan 2025", Group: "Food", Category: "Groceries", Assigned: decimal.NewFromInt(200), Activity: decimal.RequireFromString("-50"), Available: decimal.RequireFromString("150")},
		{Month: "Jan 2025", Group: "Inflow", Category: core.ReadyToAssign, Available: decimal.RequireFromString("0.1")},
	}
	reg := core.Register{
		{Account: "Cash", Date: core.NewDate(2025, 1, 15), Group: "Food", Category: "Groceries", Outflow: decimal.NewFromInt(50)},
	}
	if err := repo.SaveLedger(ctx, plan, reg); err != nil {
		t.Fatalf("save ledger: %v", err)
	}

	gotPlan, err := repo.LoadPlan(ctx)
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if !gotPlan.Equal(plan) {
		t.Fatalf("plan mismatch: %+v", gotPlan)
	}
	gotReg, err := repo.LoadRegister(ctx)
	if err != nil {
		t.Fatalf("load register: %v", err)
	}
	if !gotReg.Equal(reg) {
		t.Fatalf("register mismatch: %+v", gotReg)
	}

	// A shorter save replaces, it does not merge.
	if err := repo.SavePlan(ctx, plan[:1]); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	gotPlan, _ = repo.LoadPlan(ctx)
	if len(gotPlan) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(gotPlan))
	}
	if err := repo.SaveRegister(ctx, nil); err != nil {
		t.Fatalf("save register: %v", err)
	}
	gotReg, _ = repo.LoadRegister(ctx)
	if len(gotReg) != 0 {
		t.Fatalf("expected empty register, got %d rows", len(gotReg))
	}
}

func TestLoadMalformedAmount(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	if _, err := repo.db.ExecContext(ctx, `INSERT INTO plan_rows (position, month, category_group, category, assigned, activity, available)
		VALUES (1, 'Jan 2025', 'Food', 'Groceries', 'lots', '0', '0')`); err != nil {
		t.Fatal(err)
	}
	_, err := repo.LoadPlan(ctx)
	if !errors.Is(err, core.ErrFileFormat) {
		t.Fatalf("expected ErrFileFormat, got %v", err)
	}
}
