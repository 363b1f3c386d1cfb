package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test.db")

	if config.Path != "test.db" {
		t.Errorf("expected path 'test.db', got '%s'", config.Path)
	}
	if config.MaxOpenConns != 10 {
		t.Errorf("expected MaxOpenConns 10, got %d", config.MaxOpenConns)
	}
	if config.BusyTimeout != 5*time.Second {
		t.Errorf("expected BusyTimeout 5s, got %v", config.BusyTimeout)
	}
	if config.JournalMode != "WAL" {
		t.Errorf("expected JournalMode 'WAL', got '%s'", config.JournalMode)
	}
	if !config.AutoMigrate {
		t.Error("expected AutoMigrate to default on")
	}
}

func TestConfigDSN(t *testing.T) {
	dsn := DefaultConfig("/tmp/decks.db").DSN()

	for _, want := range []string{"busy_timeout%285000%29", "foreign_keys%281%29", "journal_mode%28WAL%29"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}

	mem := DefaultConfig(MemoryPath).DSN()
	if strings.Contains(mem, "journal_mode") {
		t.Errorf("in-memory DSN should not set journal mode: %q", mem)
	}
}

func TestOpen(t *testing.T) {
	db, err := Open(DefaultConfig(MemoryPath))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("failed to ping database: %v", err)
	}

	var n int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&n); err != nil {
		t.Fatalf("decks table missing after auto-migrate: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty decks table, got %d rows", n)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "deckforge.db")

	db, err := Open(DefaultConfig(path))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("failed to ping database: %v", err)
	}
}

func TestOpenWithNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("expected error when opening with nil config")
	}
}

func TestClose(t *testing.T) {
	db, err := Open(DefaultConfig(MemoryPath))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("failed to close database: %v", err)
	}
	if err := db.Ping(); err == nil {
		t.Error("expected error when pinging closed database")
	}
}

func TestWithTransaction(t *testing.T) {
	db, err := Open(DefaultConfig(MemoryPath))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	insert := func(id string) TxFunc {
		return func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO decks (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
				id, "deck "+id, time.Now(), time.Now())
			return err
		}
	}

	if err := db.WithTransaction(ctx, insert("a")); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := insert("b")(tx); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to be re-raised")
			}
		}()
		_ = db.WithTransaction(ctx, func(tx *sql.Tx) error {
			_ = insert("c")(tx)
			panic("kaboom")
		})
	}()

	var n int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected only the committed row, got %d rows", n)
	}
}

func TestConfigDSN_CGODriver(t *testing.T) {
	config := DefaultConfig("/tmp/decks.db")
	config.Driver = DriverCGO
	dsn := config.DSN()

	if !strings.HasPrefix(dsn, "file:/tmp/decks.db?") {
		t.Errorf("unexpected DSN prefix: %q", dsn)
	}
	for _, want := range []string{"_busy_timeout=5000", "_foreign_keys=on", "_journal_mode=WAL"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestOpen_CGODriver(t *testing.T) {
	config := DefaultConfig(MemoryPath)
	config.Driver = DriverCGO

	db, err := Open(config)
	if err != nil {
		if strings.Contains(err.Error(), "CGO_ENABLED=0") {
			t.Skip("go-sqlite3 needs cgo")
		}
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&n); err != nil {
		t.Fatalf("decks table missing after auto-migrate: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	config := DefaultConfig(MemoryPath)
	config.Driver = "postgres"
	if _, err := Open(config); err == nil {
		t.Error("expected error for unknown driver")
	}
}
