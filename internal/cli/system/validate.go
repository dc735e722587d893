package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/progress"
	"github.com/julianstephens/daystreak/internal/streak"
	"github.com/julianstephens/daystreak/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Rebuild streaks and goal progress from the daily logs."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	checker := validation.NewChecker(ctx.Store)
	result, err := checker.CheckUser(bg, ctx.User, today)
	if err != nil {
		return err
	}
	ctx.Printf("%s", result.FormatReport())
	if !result.HasConflicts() {
		ctx.Printf("\n")
		return nil
	}

	if !c.Fix {
		return fmt.Errorf("found %d conflict(s); run with --fix to rebuild derived state", len(result.Conflicts))
	}
	ctx.PerformAutomaticBackup()

	for _, c := range result.Conflicts {
		if c.Type != validation.ConflictStaleLastCompleted {
			continue
		}
		days, err := ctx.Store.ListCompletedDays(bg, c.HabitID)
		if err != nil {
			return err
		}
		if len(days) > 0 {
			if err := ctx.Store.SetLastCompletedDate(bg, c.HabitID, days[len(days)-1]); err != nil {
				return err
			}
		}
	}
	if _, err := streak.New(ctx.Store, ctx.Clock()).RecomputeUser(bg, ctx.User, today); err != nil {
		return err
	}
	tracker := progress.New(ctx.Store, ctx.Clock())
	if _, err := tracker.ListGoals(bg, ctx.User, today); err != nil {
		return err
	}
	if _, err := tracker.ListChallenges(bg, ctx.User, today); err != nil {
		return err
	}

	after, err := checker.CheckUser(bg, ctx.User, today)
	if err != nil {
		return err
	}
	ctx.Printf("\nAfter rebuild:\n%s", after.FormatReport())
	if after.HasConflicts() {
		ctx.Printf("\n")
	}
	return nil
}
