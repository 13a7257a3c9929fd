package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
	ports "budgetbot/internal/sheets"

	_ "modernc.org/sqlite"
)

const (
	planSource     = "plan_rows"
	registerSource = "register_rows"
)

var (
	_ ports.LedgerStore     = (*SQLiteRepository)(nil)
	_ ports.LedgerCommitter = (*SQLiteRepository)(nil)
)

// SQLiteRepository keeps the plan and register as two ordered tables.
// Saves replace a table's rows inside a transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadPlan implements sheets.PlanStore
func (r *SQLiteRepository) LoadPlan(ctx context.Context) (core.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT position, month, category_group, category, assigned, activity, available
		FROM plan_rows ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	defer rows.Close()

	plan := core.Plan{}
	for rows.Next() {
		var (
			pos                           int
			row                           core.PlanRow
			assigned, activity, available string
		)
		if err := rows.Scan(&pos, &row.Month, &row.Group, &row.Category, &assigned, &activity, &available); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		if row.Assigned, err = parseAmount(planSource, pos, assigned); err != nil {
			return nil, err
		}
		if row.Activity, err = parseAmount(planSource, pos, activity); err != nil {
			return nil, err
		}
		if row.Available, err = parseAmount(planSource, pos, available); err != nil {
			return nil, err
		}
		plan = append(plan, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan: %w", err)
	}
	return plan, nil
}

// SavePlan implements sheets.PlanStore
func (r *SQLiteRepository) SavePlan(ctx context.Context, p core.Plan) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return replacePlan(ctx, tx, p)
	})
}

// LoadRegister implements sheets.RegisterStore
func (r *SQLiteRepository) LoadRegister(ctx context.Context) (core.Register, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT position, account, flag, date, payee, category_group, category, memo, outflow, inflow
		FROM register_rows ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query register: %w", err)
	}
	defer rows.Close()

	reg := core.Register{}
	for rows.Next() {
		var (
			pos                   int
			row                   core.RegisterRow
			date, outflow, inflow string
		)
		if err := rows.Scan(&pos, &row.Account, &row.Flag, &date, &row.Payee, &row.Group, &row.Category, &row.Memo, &outflow, &inflow); err != nil {
			return nil, fmt.Errorf("scan register row: %w", err)
		}
		if row.Date, err = core.ParseDate(date); err != nil {
			return nil, &core.FormatError{Source: registerSource, Line: pos, Err: err}
		}
		if row.Outflow, err = parseAmount(registerSource, pos, outflow); err != nil {
			return nil, err
		}
		if row.Inflow, err = parseAmount(registerSource, pos, inflow); err != nil {
			return nil, err
		}
		reg = append(reg, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate register: %w", err)
	}
	return reg, nil
}

// SaveRegister implements sheets.RegisterStore
func (r *SQLiteRepository) SaveRegister(ctx context.Context, reg core.Register) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return replaceRegister(ctx, tx, reg)
	})
}

// SaveLedger replaces both tables in one transaction.
func (r *SQLiteRepository) SaveLedger(ctx context.Context, p core.Plan, reg core.Register) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := replacePlan(ctx, tx, p); err != nil {
			return err
		}
		return replaceRegister(ctx, tx, reg)
	})
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "Ledger saved to SQLite", "plan_rows", len(p), "register_rows", len(reg))
	return nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func replacePlan(ctx context.Context, tx *sql.Tx, p core.Plan) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_rows`); err != nil {
		return fmt.Errorf("clear plan: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plan_rows
		(position, month, category_group, category, assigned, activity, available)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare plan insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range p {
		if _, err := stmt.ExecContext(ctx, i+1, row.Month, row.Group, row.Category,
			row.Assigned.String(), row.Activity.String(), row.Available.String()); err != nil {
			return fmt.Errorf("insert plan row %d: %w", i+1, err)
		}
	}
	return nil
}

func replaceRegister(ctx context.Context, tx *sql.Tx, reg core.Register) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM register_rows`); err != nil {
		return fmt.Errorf("clear register: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO register_rows
		(position, account, flag, date, payee, category_group, category, memo, outflow, inflow)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare register insert: %w", err)
	}
	defer stmt.Close()
	for i, row := range reg {
		if _, err := stmt.ExecContext(ctx, i+1, row.Account, row.Flag, row.Date.String(), row.Payee,
			row.Group, row.Category, row.Memo, row.Outflow.String(), row.Inflow.String()); err != nil {
			return fmt.Errorf("insert register row %d: %w", i+1, err)
		}
	}
	return nil
}

func parseAmount(source string, pos int, s string) (d decimal.Decimal, err error) {
	d, err = core.ParseStoredAmount(s)
	if err != nil {
		return d, &core.FormatError{Source: source, Line: pos, Err: fmt.Errorf("%w %q", err, s)}
	}
	return d, nil
}
