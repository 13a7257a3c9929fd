package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"budgetbot/internal/core"
	ports "budgetbot/internal/sheets"
)

var (
	_ ports.LedgerStore     = (*Store)(nil)
	_ ports.LedgerCommitter = (*Store)(nil)
)

// Store keeps the ledger in process memory. Loads and saves copy the tables
// so callers never share rows with the store.
type Store struct {
	mu       sync.Mutex
	plan     core.Plan
	register core.Register
}

func New(plan core.Plan, register core.Register) *Store {
	return &Store{plan: plan.Clone(), register: register.Clone()}
}

// NewFromFiles seeds the store from seed_plan.csv and seed_register.csv in
// base. A missing seed file leaves its table empty; a malformed one is a
// core.FormatError.
func NewFromFiles(base string) (*Store, error) {
	planRecords, err := readRecords(filepath.Join(base, "seed_plan.csv"))
	if err != nil {
		return nil, err
	}
	plan, err := ports.DecodePlan("seed_plan.csv", planRecords)
	if err != nil {
		return nil, fmt.Errorf("seed plan: %w", err)
	}
	regRecords, err := readRecords(filepath.Join(base, "seed_register.csv"))
	if err != nil {
		return nil, err
	}
	reg, err := ports.DecodeRegister("seed_register.csv", regRecords)
	if err != nil {
		return nil, fmt.Errorf("seed register: %w", err)
	}
	return New(plan, reg), nil
}

func (s *Store) LoadPlan(_ context.Context) (core.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone(), nil
}

func (s *Store) SavePlan(_ context.Context, p core.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p.Clone()
	return nil
}

func (s *Store) LoadRegister(_ context.Context) (core.Register, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register.Clone(), nil
}

func (s *Store) SaveRegister(_ context.Context, r core.Register) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register = r.Clone()
	return nil
}

// SaveLedger replaces both tables under one lock.
func (s *Store) SaveLedger(_ context.Context, p core.Plan, r core.Register) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p.Clone()
	s.register = r.Clone()
	return nil
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &core.FormatError{Source: filepath.Base(path), Line: pe.Line, Err: pe.Err}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
