package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgetbot/internal/config"
	"budgetbot/internal/core"
	"budgetbot/internal/sheets/csvfile"
	"budgetbot/internal/sheets/memory"
	"budgetbot/internal/storage"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"csv", Config{Type: CSVBackend, PlanFile: "p.csv", RegisterFile: "r.csv"}, false},
		{"csv missing register", Config{Type: CSVBackend, PlanFile: "p.csv"}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"sheets missing id", Config{Type: SheetsBackend}, true},
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "postgres"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://localhost", AMQPExchange: "budget"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "bogus"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "csv",
		PlanFile:     "plan.csv",
		RegisterFile: "register.csv",
		AMQPURL:      "amqp://localhost",
		AMQPExchange: "budget",
		AMQPQueue:    "ledger_events",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() = %v", err)
	}
	if cfg.Type != CSVBackend || cfg.PlanFile != "plan.csv" || cfg.AMQPQueue != "ledger_events" || cfg.DataDirectory != "data" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("csv", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{
			Type:         CSVBackend,
			PlanFile:     filepath.Join(dir, "plan.csv"),
			RegisterFile: filepath.Join(dir, "register.csv"),
		})
		if err != nil {
			t.Fatalf("CreateBackend() = %v", err)
		}
		if _, ok := res.Store.(*csvfile.Store); !ok {
			t.Fatalf("unexpected store %T", res.Store)
		}
		if res.Publisher != nil {
			t.Fatal("expected no publisher without AMQP")
		}
		if err := res.Close(); err != nil {
			t.Fatalf("Close() = %v", err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(dir, "budget.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		if err != nil {
			t.Fatalf("CreateBackend() = %v", err)
		}
		defer res.Close()
		if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
			t.Fatalf("unexpected store %T", res.Store)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("database not created: %v", err)
		}
	})

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, DataDirectory: dir})
		if err != nil {
			t.Fatalf("CreateBackend() = %v", err)
		}
		if _, ok := res.Store.(*memory.Store); !ok {
			t.Fatalf("unexpected store %T", res.Store)
		}
	})

	t.Run("memory with malformed seed", func(t *testing.T) {
		seedDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(seedDir, "seed_plan.csv"), []byte("Month,Category\n"), 0o644); err != nil {
			t.Fatalf("write seed: %v", err)
		}
		_, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, DataDirectory: seedDir})
		if !errors.Is(err, core.ErrFileFormat) {
			t.Fatalf("expected file format error, got %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: "bogus"}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != len(config.ValidBackends) {
		t.Fatalf("GetBackendTypeStrings() = %v, config accepts %v", got, config.ValidBackends)
	}
	for i := range got {
		if got[i] != config.ValidBackends[i] {
			t.Fatalf("GetBackendTypeStrings() = %v, config accepts %v", got, config.ValidBackends)
		}
	}
}
