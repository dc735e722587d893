package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daystreak/internal/achievements"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/cli/backups"
	"github.com/julianstephens/daystreak/internal/cli/system"
	"github.com/julianstephens/daystreak/internal/cli/tracking"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/keyring"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/storage/postgres"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite file path or PostgreSQL connection string. Falls back to the OS keyring, then ~/.config/daystreak/daystreak.db. Credentials must NOT be embedded in the connection string." env:"DAYSTREAK_DB_CONNECTION"`
	User     string `help:"User whose habits are tracked." default:"local" env:"DAYSTREAK_USER"`
	Timezone string `help:"IANA timezone that defines calendar days. Defaults to the system timezone." env:"DAYSTREAK_TIMEZONE"`
	Rules    string `help:"YAML file with achievement rules. Defaults to the built-in rules." type:"path"`
	Verbose  bool   `short:"v" help:"Mirror debug logs to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize daystreak storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check streaks and goal progress against the daily logs."`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   backups.BackupCmd  `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`

	Habit        tracking.HabitCmd        `cmd:"" help:"Manage habits."`
	Checkin      tracking.CheckinCmd      `cmd:"" help:"Record a habit completion."`
	Streak       tracking.StreakCmd       `cmd:"" help:"Show a habit's streak and garden stage."`
	Stats        tracking.StatsCmd        `cmd:"" help:"Show aggregate stats."`
	Achievements tracking.AchievementsCmd `cmd:"" help:"Show achievements."`
	Goal         tracking.GoalCmd         `cmd:"" help:"Manage goals."`
	Challenge    tracking.ChallengeCmd    `cmd:"" help:"Manage streak challenges."`
	Recompute    tracking.RecomputeCmd    `cmd:"" help:"Recompute streaks as of today. Run daily from a scheduler."`
}

// commands that manage storage themselves
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"keyring": true,
	"doctor":  true,
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// openStore picks the backend from location. Embedded passwords are only
// tolerated when the connection string came from the keyring.
func openStore(location string, fromKeyring bool) (storage.Provider, error) {
	if postgres.IsConnString(location) {
		err := postgres.ValidateConnString(location)
		if err != nil && !(fromKeyring && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
			return nil, err
		}
		return postgres.New(location), nil
	}
	return sqlite.NewStore(expandPath(location)), nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, goals, challenges and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: expandPath(constants.DefaultConfigDir)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	location := keyring.ResolveConnection(CLI.Config, constants.DefaultConfigPath)
	store, err := openStore(location, strings.TrimSpace(CLI.Config) == "")
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintf(os.Stderr, "       Store it in the OS keyring with '%s keyring set', or use a .pgpass file.\n", constants.AppName)
			os.Exit(1)
		}
		apperrors.Fatal(err)
	}
	defer store.Close()

	rules := achievements.DefaultRules()
	if CLI.Rules != "" {
		if rules, err = achievements.LoadRules(CLI.Rules); err != nil {
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:    store,
		User:     CLI.User,
		Timezone: CLI.Timezone,
		Rules:    rules,
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !skipLoad[command[0]] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
