package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daystreak/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_test.sql": {Data: []byte("CREATE TABLE test (id INTEGER);")},
	}, DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	}, DriverSQLite)

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" {
		t.Errorf("unexpected first migration: %+v", got[0])
	}
	if got[1].Version != 2 || got[1].Name != "second" {
		t.Errorf("unexpected second migration: %+v", got[1])
	}
}

func TestReadMigrationFilesRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	}, DriverSQLite)

	_, err := runner.ReadMigrationFiles()
	if err == nil || !strings.Contains(err.Error(), "duplicate migration version") {
		t.Errorf("expected duplicate version error, got %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}, DriverSQLite)

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", count)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed after apply: %v", err)
	}
}

func TestValidateVersionRejectsNewerDatabase(t *testing.T) {
	db := setupTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_first.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	}, DriverSQLite)

	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for database newer than application")
	}
}

func TestEmbeddedSQLiteSchemaApplies(t *testing.T) {
	db := setupTestDB(t)

	sub, err := migrations.Sub(migrations.SQLite)
	if err != nil {
		t.Fatalf("failed to access embedded migrations: %v", err)
	}

	runner := NewRunner(db, sub, DriverSQLite)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded schema failed to apply: %v", err)
	}

	for _, table := range []string{"habits", "daily_logs", "streak_states", "achievements", "goals", "challenges"} {
		var count int
		row := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table)
		if err := row.Scan(&count); err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}
