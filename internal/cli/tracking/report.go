package tracking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daystreak/internal/achievements"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/stats"
	"github.com/julianstephens/daystreak/internal/streak"
)

type StreakCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	state, err := streak.New(ctx.Store, ctx.Clock()).State(context.Background(), habit.ID)
	if err != nil {
		return err
	}

	cli.RenderStreak(ctx.Writer(), habit, state, today)
	return nil
}

type StatsCmd struct {
	JSON bool `help:"Print stats as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	s, err := stats.New(ctx.Store).ComputeUserStats(context.Background(), ctx.User, today)
	if err != nil {
		return err
	}

	if c.JSON {
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		ctx.Printf("%s\n", out)
		return nil
	}

	cli.RenderStats(ctx.Writer(), s, today)
	return nil
}

type AchievementsCmd struct {
	Check bool `help:"Evaluate rules and unlock newly earned achievements first."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	engine := achievements.New(ctx.Store, ctx.Rules, ctx.Clock())
	if c.Check {
		unlocked, err := engine.Evaluate(bg, ctx.User, today)
		if err != nil {
			return err
		}
		cli.RenderUnlocked(ctx.Writer(), unlocked)
	}

	ov, err := engine.Overview(bg, ctx.User, today)
	if err != nil {
		return err
	}
	cli.RenderAchievements(ctx.Writer(), ov)
	return nil
}

type RecomputeCmd struct{}

// Run rebuilds every streak as of today so that broken runs decay, then
// refreshes goals, challenges and achievements. It is meant for a daily
// scheduler such as cron.
func (c *RecomputeCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	results, err := streak.New(ctx.Store, ctx.Clock()).RecomputeUser(bg, ctx.User, today)
	if err != nil {
		return err
	}
	if err := refreshProgress(ctx, today); err != nil {
		return err
	}

	unlocked, err := achievements.New(ctx.Store, ctx.Rules, ctx.Clock()).Evaluate(bg, ctx.User, today)
	if err != nil {
		return err
	}

	ctx.Printf("Recomputed %d habit(s) as of %s\n", len(results), today)
	cli.RenderUnlocked(ctx.Writer(), unlocked)
	return nil
}
