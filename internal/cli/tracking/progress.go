package tracking

import (
	"context"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/progress"
)

type GoalCmd struct {
	Add  GoalAddCmd  `cmd:"" help:"Add a goal."`
	List GoalListCmd `cmd:"" help:"List goals."`
}

type GoalAddCmd struct {
	Habit  string `arg:"" help:"Habit name or ID."`
	Target int    `help:"Completions to reach within the period." required:""`
	Period string `help:"Goal period: weekly or monthly." enum:"weekly,monthly" default:"weekly"`
	Start  string `help:"Start day (YYYY-MM-DD). Defaults to today."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	g, err := progress.New(ctx.Store, ctx.Clock()).CreateGoal(context.Background(), progress.GoalRequest{
		UserID:      ctx.User,
		HabitID:     habit.ID,
		TargetCount: c.Target,
		Period:      models.GoalPeriod(c.Period),
		StartDate:   calendar.DayKey(c.Start),
	}, today)
	if err != nil {
		return err
	}

	ctx.Printf("Added %s goal for %q: %d completion(s) from %s to %s\n", g.Period, habit.Name, g.TargetCount, g.StartDate, g.EndDate)
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	goals, err := progress.New(ctx.Store, ctx.Clock()).ListGoals(context.Background(), ctx.User, today)
	if err != nil {
		return err
	}
	names, err := habitNames(ctx)
	if err != nil {
		return err
	}

	cli.RenderGoals(ctx.Writer(), goals, names)
	return nil
}

type ChallengeCmd struct {
	Add  ChallengeAddCmd  `cmd:"" help:"Add a streak challenge."`
	List ChallengeListCmd `cmd:"" help:"List challenges."`
}

type ChallengeAddCmd struct {
	Habit    string `arg:"" help:"Habit name or ID."`
	Days     int    `help:"Streak length to reach (at least 3)." required:""`
	Duration int    `help:"Days available to reach it (at most 365). Defaults to --days."`
	Start    string `help:"Start day (YYYY-MM-DD). Defaults to today."`
}

func (c *ChallengeAddCmd) Run(ctx *cli.Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	duration := c.Duration
	if duration == 0 {
		duration = c.Days
	}
	ch, err := progress.New(ctx.Store, ctx.Clock()).CreateChallenge(context.Background(), progress.ChallengeRequest{
		UserID:       ctx.User,
		HabitID:      habit.ID,
		TargetDays:   c.Days,
		DurationDays: duration,
		StartDate:    calendar.DayKey(c.Start),
	}, today)
	if err != nil {
		return err
	}

	ctx.Printf("Added challenge for %q: %d-day streak by %s\n", habit.Name, ch.TargetDays, ch.EndDate)
	return nil
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	challenges, err := progress.New(ctx.Store, ctx.Clock()).ListChallenges(context.Background(), ctx.User, today)
	if err != nil {
		return err
	}
	names, err := habitNames(ctx)
	if err != nil {
		return err
	}

	cli.RenderChallenges(ctx.Writer(), challenges, names)
	return nil
}

func refreshProgress(ctx *cli.Context, today calendar.DayKey) error {
	tracker := progress.New(ctx.Store, ctx.Clock())
	if _, err := tracker.ListGoals(context.Background(), ctx.User, today); err != nil {
		return err
	}
	_, err := tracker.ListChallenges(context.Background(), ctx.User, today)
	return err
}
