package tracking

import (
	"context"

	"github.com/julianstephens/daystreak/internal/cli"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/habits"
	"github.com/julianstephens/daystreak/internal/models"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits."`
	Deactivate HabitDeactivateCmd `cmd:"" help:"Deactivate a habit. Its history is kept."`
	Activate   HabitActivateCmd   `cmd:"" help:"Reactivate a habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description."`
	Category    string `help:"Category: Health, Productivity, Learning, Mindfulness or Other." default:"Other"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	svc := habits.New(ctx.Store, ctx.Clock())
	h, err := svc.Create(context.Background(), habits.CreateRequest{
		UserID:      ctx.User,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include deactivated habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	list, err := habits.New(ctx.Store, ctx.Clock()).List(bg, ctx.User, c.All)
	if err != nil {
		return err
	}

	rows := make([]cli.HabitRow, 0, len(list))
	for _, h := range list {
		state, err := ctx.Store.GetStreakState(bg, h.ID)
		if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
			return err
		}
		rows = append(rows, cli.HabitRow{Habit: h, State: state})
	}

	cli.RenderHabits(ctx.Writer(), rows, today)
	return nil
}

type HabitDeactivateCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeactivateCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, c.Habit, false)
}

type HabitActivateCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitActivateCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, c.Habit, true)
}

func toggle(ctx *cli.Context, ref string, active bool) error {
	bg := context.Background()
	svc := habits.New(ctx.Store, ctx.Clock())

	h, err := svc.Resolve(bg, ctx.User, ref)
	if err != nil {
		return err
	}

	var updated models.Habit
	if active {
		updated, err = svc.Activate(bg, ctx.User, h.ID)
	} else {
		updated, err = svc.Deactivate(bg, ctx.User, h.ID)
	}
	if err != nil {
		return err
	}

	state := "deactivated"
	if updated.Active {
		state = "active"
	}
	ctx.Printf("Habit %q is now %s\n", updated.Name, state)
	return nil
}

// resolveHabit finds the current user's habit by name or id.
func resolveHabit(ctx *cli.Context, ref string) (models.Habit, error) {
	return habits.New(ctx.Store, ctx.Clock()).Resolve(context.Background(), ctx.User, ref)
}

// habitNames maps every habit id of the current user to its name.
func habitNames(ctx *cli.Context) (map[string]string, error) {
	list, err := ctx.Store.ListHabits(context.Background(), ctx.User, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, h := range list {
		names[h.ID] = h.Name
	}
	return names, nil
}
