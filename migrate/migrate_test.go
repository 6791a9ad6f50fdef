package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestDialect(t *testing.T) {
	cases := map[string]string{"sqlite": "sqlite3", "SQLite3": "sqlite3", "postgres": "postgres", "postgresql": "postgres"}
	for in, want := range cases {
		got, err := Dialect(in)
		if err != nil || got != want {
			t.Fatalf("Dialect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := Dialect("mysql"); err == nil {
		t.Fatalf("expected error for mysql")
	}
}

func TestRunUpDownSQLite(t *testing.T) {
	db := openSQLite(t)
	if err := Run(Options{DB: db, Driver: "sqlite", Command: "up"}); err != nil {
		t.Fatalf("up: %v", err)
	}
	v, err := CurrentVersion(db, "sqlite")
	if err != nil || v != 1 {
		t.Fatalf("version after up = %d, %v; want 1", v, err)
	}
	if _, err := db.Exec(`INSERT INTO journal_entries (id, operation, status, created_at) VALUES ('1', 'x', 'ok', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// Re-running up is a no-op.
	if err := Run(Options{DB: db, Driver: "sqlite"}); err != nil {
		t.Fatalf("second up: %v", err)
	}
	if err := Run(Options{DB: db, Driver: "sqlite", Command: "down"}); err != nil {
		t.Fatalf("down: %v", err)
	}
	v, err = CurrentVersion(db, "sqlite")
	if err != nil || v != 0 {
		t.Fatalf("version after down = %d, %v; want 0", v, err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if err := Run(Options{Driver: "sqlite"}); err == nil {
		t.Fatalf("expected error without db")
	}
	db := openSQLite(t)
	if err := Run(Options{DB: db, Driver: "sqlite", Command: "sideways"}); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
