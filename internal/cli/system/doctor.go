package system

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/daystreak/internal/backup"
	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
	"github.com/julianstephens/daystreak/internal/validation"
)

type DoctorCmd struct{}

type dbHandle interface {
	DB() *sql.DB
}

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", name)
	}

	// Check 1: DB reachable
	reachErr := checkDBReachable(ctx)
	report("Database reachable", reachErr, false)
	dbReachable := reachErr == nil

	// Check 2: Schema version matches the embedded migrations
	if dbReachable {
		report("Schema version", checkSchemaVersion(ctx), false)
	} else {
		skip("Schema version")
	}

	// Check 3: Backups present (warning only)
	report("Backups present", checkBackupsPresent(ctx), true)

	// Check 4: Derived state matches the daily logs
	if dbReachable {
		report("Data validation", checkValidation(ctx), false)
	} else {
		skip("Data validation")
	}

	// Check 5: Clock/timezone sanity
	report("Clock/timezone", checkClockTimezone(ctx), false)

	ctx.Printf("\n")
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	ctx.Printf("All checks passed.\n")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, ok := ctx.Store.(dbHandle)
	if !ok {
		return nil
	}
	db := h.DB()
	if db == nil {
		return fmt.Errorf("no database connection")
	}
	var one int
	return db.QueryRow("SELECT 1").Scan(&one)
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run 'migrate'", current, latest)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d day(s) old", int(age.Hours()/24))
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	result, err := validation.NewChecker(ctx.Store).CheckUser(context.Background(), ctx.User, today)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s), run 'validate --fix'", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if _, err := calendar.LoadLocation(ctx.Timezone); err != nil {
		return err
	}
	if ctx.Clock()().Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", ctx.Clock()().Format(time.RFC3339))
	}
	return nil
}
