// Package csvfile stores the plan and register as comma-separated files.
//
// Every load re-reads the file and every save rewrites it in full. A missing
// file is created with its header row on first load.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"budgetbot/internal/core"
	ports "budgetbot/internal/sheets"
)

var _ ports.LedgerStore = (*Store)(nil)

// Store is a ledger store over two CSV files.
type Store struct {
	planPath     string
	registerPath string
	logger       *slog.Logger
}

// New creates a store over the given plan and register files.
func New(planPath, registerPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{planPath: planPath, registerPath: registerPath, logger: logger}
}

// LoadPlan implements sheets.PlanStore
func (s *Store) LoadPlan(ctx context.Context) (core.Plan, error) {
	records, err := s.load(ctx, s.planPath, ports.PlanHeader)
	if err != nil {
		return nil, err
	}
	return ports.DecodePlan(s.planPath, records)
}

// SavePlan implements sheets.PlanStore
func (s *Store) SavePlan(ctx context.Context, p core.Plan) error {
	if err := write(s.planPath, ports.EncodePlan(p)); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	s.logger.DebugContext(ctx, "Plan saved", "path", s.planPath, "rows", len(p))
	return nil
}

// LoadRegister implements sheets.RegisterStore
func (s *Store) LoadRegister(ctx context.Context) (core.Register, error) {
	records, err := s.load(ctx, s.registerPath, ports.RegisterHeader)
	if err != nil {
		return nil, err
	}
	return ports.DecodeRegister(s.registerPath, records)
}

// SaveRegister implements sheets.RegisterStore
func (s *Store) SaveRegister(ctx context.Context, r core.Register) error {
	if err := write(s.registerPath, ports.EncodeRegister(r)); err != nil {
		return fmt.Errorf("save register: %w", err)
	}
	s.logger.DebugContext(ctx, "Register saved", "path", s.registerPath, "rows", len(r))
	return nil
}

func (s *Store) load(ctx context.Context, path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := write(path, [][]string{header}); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		s.logger.InfoContext(ctx, "Created ledger file", "path", path)
		return [][]string{header}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Column counts are checked against the header by the decoder.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &core.FormatError{Source: path, Line: pe.Line, Err: pe.Err}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func write(path string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
