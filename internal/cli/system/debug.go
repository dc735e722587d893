package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/dailylog"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/habits"
	"github.com/julianstephens/daystreak/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit with its streak state and recent logs as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Days  int    `help:"Number of trailing days of logs to include." default:"7"`
}

type habitDump struct {
	Habit  models.Habit        `json:"habit"`
	Streak *models.StreakState `json:"streak,omitempty"`
	Logs   []models.DailyLog   `json:"logs"`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	habit, err := habits.New(ctx.Store, ctx.Clock()).Resolve(bg, ctx.User, cmd.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	dump := habitDump{Habit: habit, Logs: []models.DailyLog{}}
	state, err := ctx.Store.GetStreakState(bg, habit.ID)
	switch {
	case err == nil:
		dump.Streak = &state
	case apperrors.KindOf(err) != apperrors.KindNotFound:
		return err
	}

	logs := dailylog.New(ctx.Store, ctx.Clock())
	for i := cmd.Days - 1; i >= 0; i-- {
		l, err := logs.Get(bg, habit.ID, today.AddDays(-i))
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			continue
		}
		if err != nil {
			return err
		}
		dump.Logs = append(dump.Logs, l)
	}

	return printJSON(ctx, dump)
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Printf("%s\n", jsonBytes)
	return nil
}
