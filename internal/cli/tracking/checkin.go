package tracking

import (
	"context"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/checkin"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
)

type CheckinCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	At    string `help:"Instant of the completion (RFC3339). Defaults to now."`
	Date  string `help:"Day of the completion (YYYY-MM-DD, 'today' or 'yesterday'). Overrides --at."`
	Undo  bool   `help:"Mark the day as not completed."`
}

func (c *CheckinCmd) instant(ctx *cli.Context) (*time.Time, string, error) {
	if c.Date != "" {
		day, err := ctx.ParseDay(c.Date)
		if err != nil {
			return nil, "", err
		}
		loc, err := calendar.LoadLocation(ctx.Timezone)
		if err != nil {
			return nil, "", err
		}
		// Local noon is unambiguous on DST transition days
		d := day.Time()
		t := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
		return &t, ctx.Timezone, nil
	}
	if c.At != "" {
		t, err := time.Parse(constants.TimestampFormat, c.At)
		if err != nil {
			return nil, "", apperrors.InvalidInput("invalid --at %q (expected RFC3339)", c.At)
		}
		return &t, ctx.Timezone, nil
	}
	return nil, ctx.Timezone, nil
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	habit, err := resolveHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	instant, tz, err := c.instant(ctx)
	if err != nil {
		return err
	}

	svc := checkin.New(ctx.Store, ctx.Rules, ctx.Clock())
	res, err := svc.CheckIn(context.Background(), checkin.Request{
		UserID:    ctx.User,
		HabitID:   habit.ID,
		Instant:   instant,
		Timezone:  tz,
		Completed: !c.Undo,
	})
	if err != nil {
		return err
	}

	cli.RenderCheckIn(ctx.Writer(), habit, res)
	return nil
}
