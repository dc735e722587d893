package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "daystreak.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.CreateHabit(context.Background(), models.Habit{
		ID: "h1", UserID: "u1", Name: "Read", Active: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return dbPath
}

func habitCount(t *testing.T, dbPath string) int {
	t.Helper()

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()

	habits, err := store.ListHabits(context.Background(), "u1", true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	return len(habits)
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file not created: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.Dir() {
		t.Errorf("backup written to %s, want directory %s", backupPath, mgr.Dir())
	}
	if got := habitCount(t, backupPath); got != 1 {
		t.Errorf("backup has %d habits, want 1", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	step := 0
	mgr.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if !backups[0].Timestamp.After(backups[len(backups)-1].Timestamp) {
		t.Error("backups should be sorted newest first")
	}
}

func TestCreateBackupSameSecond(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct backup paths, got %s twice", first)
	}

	backups, _ := mgr.List()
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	if err := store.CreateHabit(context.Background(), models.Habit{
		ID: "h2", UserID: "u1", Name: "Run", Active: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	store.Close()

	if got := habitCount(t, dbPath); got != 2 {
		t.Fatalf("expected 2 habits before restore, got %d", got)
	}

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := habitCount(t, dbPath); got != 1 {
		t.Errorf("expected 1 habit after restore, got %d", got)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database at all, just text"), 0600); err != nil {
		t.Fatalf("failed to write bogus file: %v", err)
	}

	mgr := NewManager(dbPath)
	if err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring an invalid file")
	}
	if err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error restoring a missing file")
	}
}
