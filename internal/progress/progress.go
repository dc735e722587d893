// Package progress tracks goals and challenges. Both follow the same state
// machine: active until the target is reached (completed) or the end date
// passes (failed). Completed and failed are terminal.
package progress

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/validation"
)

// GoalRequest asks for TargetCount completions of a habit within one period.
// StartDate defaults to today.
type GoalRequest struct {
	UserID      string            `validate:"notblank"`
	HabitID     string            `validate:"notblank"`
	TargetCount int               `validate:"min=1"`
	Period      models.GoalPeriod `validate:"oneof=weekly monthly"`
	StartDate   calendar.DayKey   `validate:"omitempty,daykey"`
}

// ChallengeRequest asks for a TargetDays streak within DurationDays.
// StartDate defaults to today.
type ChallengeRequest struct {
	UserID       string          `validate:"notblank"`
	HabitID      string          `validate:"notblank"`
	TargetDays   int             `validate:"min=3"`
	DurationDays int             `validate:"gtefield=TargetDays,max=365"`
	StartDate    calendar.DayKey `validate:"omitempty,daykey"`
}

// GoalEndDate returns the inclusive last day of a goal period starting on start.
func GoalEndDate(start calendar.DayKey, period models.GoalPeriod) calendar.DayKey {
	if period == models.PeriodMonthly {
		return start.AddMonths(1)
	}
	return start.AddDays(7)
}

// EvaluateGoal applies progress to g as of now. A terminal goal is returned
// unchanged.
func EvaluateGoal(g models.Goal, progress int, now calendar.DayKey, at time.Time) models.Goal {
	if g.Status.Terminal() {
		return g
	}
	g.CurrentProgress = progress
	switch {
	case progress >= g.TargetCount:
		g.Status = models.StatusCompleted
		g.CompletedAt = &at
	case now.After(g.EndDate):
		g.Status = models.StatusFailed
	}
	return g
}

// EvaluateChallenge applies the habit's current streak to c as of now. A
// terminal challenge is returned unchanged.
func EvaluateChallenge(c models.Challenge, state models.StreakState, now calendar.DayKey, at time.Time) models.Challenge {
	if c.Status.Terminal() {
		return c
	}
	c.CurrentStreak = state.CurrentAsOf(now)
	c.LastCheckInDate = state.LastCompletedDate
	switch {
	case c.CurrentStreak >= c.TargetDays:
		c.Status = models.StatusCompleted
		c.CompletedAt = &at
	case now.After(c.EndDate):
		c.Status = models.StatusFailed
	}
	return c
}

// Tracker creates goals and challenges and keeps their progress current.
type Tracker struct {
	store storage.Store
	now   func() time.Time
}

// New returns a tracker over store. now defaults to time.Now.
func New(store storage.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

func (t *Tracker) activeHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	h, err := t.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.UserID != userID || !h.Active {
		return models.Habit{}, apperrors.NotFound("habit %s not found", habitID)
	}
	return h, nil
}

// CreateGoal validates req and stores a new active goal evaluated as of today.
func (t *Tracker) CreateGoal(ctx context.Context, req GoalRequest, today calendar.DayKey) (models.Goal, error) {
	if err := validation.Struct(req); err != nil {
		return models.Goal{}, err
	}
	if _, err := t.activeHabit(ctx, req.UserID, req.HabitID); err != nil {
		return models.Goal{}, err
	}

	start := req.StartDate
	if start == "" {
		start = today
	}
	g := models.Goal{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		HabitID:     req.HabitID,
		TargetCount: req.TargetCount,
		Period:      req.Period,
		StartDate:   start,
		EndDate:     GoalEndDate(start, req.Period),
		Status:      models.StatusActive,
		CreatedAt:   t.now().UTC(),
	}

	// Completions already logged inside the window count
	count, err := t.store.CountCompletedInRange(ctx, g.HabitID, g.StartDate, g.EndDate)
	if err != nil {
		return models.Goal{}, err
	}
	g = EvaluateGoal(g, count, today, g.CreatedAt)

	if err := t.store.CreateGoal(ctx, g); err != nil {
		return models.Goal{}, err
	}
	logger.Info("Goal created", "goal", g.ID, "habit", g.HabitID, "target", g.TargetCount, "period", g.Period, "end", g.EndDate)
	return g, nil
}

// CreateChallenge validates req and stores a new active challenge evaluated as
// of today.
func (t *Tracker) CreateChallenge(ctx context.Context, req ChallengeRequest, today calendar.DayKey) (models.Challenge, error) {
	if err := validation.Struct(req); err != nil {
		return models.Challenge{}, err
	}
	if _, err := t.activeHabit(ctx, req.UserID, req.HabitID); err != nil {
		return models.Challenge{}, err
	}

	start := req.StartDate
	if start == "" {
		start = today
	}
	c := models.Challenge{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		HabitID:    req.HabitID,
		TargetDays: req.TargetDays,
		StartDate:  start,
		EndDate:    start.AddDays(req.DurationDays),
		Status:     models.StatusActive,
		CreatedAt:  t.now().UTC(),
	}

	state, err := t.streakState(ctx, c.HabitID)
	if err != nil {
		return models.Challenge{}, err
	}
	c = EvaluateChallenge(c, state, today, c.CreatedAt)

	if err := t.store.CreateChallenge(ctx, c); err != nil {
		return models.Challenge{}, err
	}
	logger.Info("Challenge created", "challenge", c.ID, "habit", c.HabitID, "target_days", c.TargetDays, "end", c.EndDate)
	return c, nil
}

func (t *Tracker) streakState(ctx context.Context, habitID string) (models.StreakState, error) {
	state, err := t.store.GetStreakState(ctx, habitID)
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		return models.StreakState{HabitID: habitID}, nil
	}
	return state, err
}

func (t *Tracker) refreshGoal(ctx context.Context, g models.Goal, now calendar.DayKey) (models.Goal, error) {
	if g.Status.Terminal() {
		return g, nil
	}
	count, err := t.store.CountCompletedInRange(ctx, g.HabitID, g.StartDate, g.EndDate)
	if err != nil {
		return models.Goal{}, err
	}

	updated := EvaluateGoal(g, count, now, t.now().UTC())
	if updated.CurrentProgress == g.CurrentProgress && updated.Status == g.Status {
		return g, nil
	}
	if err := t.store.UpdateGoalProgress(ctx, updated); err != nil {
		return models.Goal{}, err
	}
	if updated.Status != g.Status {
		logger.Info("Goal finished", "goal", g.ID, "status", updated.Status, "progress", updated.CurrentProgress)
	}
	return updated, nil
}

func (t *Tracker) refreshChallenge(ctx context.Context, c models.Challenge, now calendar.DayKey) (models.Challenge, error) {
	if c.Status.Terminal() {
		return c, nil
	}
	state, err := t.streakState(ctx, c.HabitID)
	if err != nil {
		return models.Challenge{}, err
	}

	updated := EvaluateChallenge(c, state, now, t.now().UTC())
	if updated.CurrentStreak == c.CurrentStreak && updated.Status == c.Status && sameDay(updated.LastCheckInDate, c.LastCheckInDate) {
		return c, nil
	}
	if err := t.store.UpdateChallengeProgress(ctx, updated); err != nil {
		return models.Challenge{}, err
	}
	if updated.Status != c.Status {
		logger.Info("Challenge finished", "challenge", c.ID, "status", updated.Status, "streak", updated.CurrentStreak)
	}
	return updated, nil
}

func sameDay(a, b *calendar.DayKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Goal returns the goal with id, refreshed as of now.
func (t *Tracker) Goal(ctx context.Context, id string, now calendar.DayKey) (models.Goal, error) {
	g, err := t.store.GetGoal(ctx, id)
	if err != nil {
		return models.Goal{}, err
	}
	return t.refreshGoal(ctx, g, now)
}

// Challenge returns the challenge with id, refreshed as of now.
func (t *Tracker) Challenge(ctx context.Context, id string, now calendar.DayKey) (models.Challenge, error) {
	c, err := t.store.GetChallenge(ctx, id)
	if err != nil {
		return models.Challenge{}, err
	}
	return t.refreshChallenge(ctx, c, now)
}

// ListGoals returns the goals on userID's active habits, refreshing the
// active ones as of now.
func (t *Tracker) ListGoals(ctx context.Context, userID string, now calendar.DayKey) ([]models.Goal, error) {
	goals, err := t.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, g := range goals {
		if goals[i], err = t.refreshGoal(ctx, g, now); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// ListChallenges returns the challenges on userID's active habits, refreshing
// the active ones as of now.
func (t *Tracker) ListChallenges(ctx context.Context, userID string, now calendar.DayKey) ([]models.Challenge, error) {
	challenges, err := t.store.ListChallenges(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, c := range challenges {
		if challenges[i], err = t.refreshChallenge(ctx, c, now); err != nil {
			return nil, err
		}
	}
	return challenges, nil
}

// Refreshed holds the goals and challenges of a habit after a refresh.
type Refreshed struct {
	Goals      []models.Goal
	Challenges []models.Challenge
}

// RefreshForHabit re-evaluates the active goals and challenges of habitID,
// typically right after a check-in has updated its logs and streak.
func (t *Tracker) RefreshForHabit(ctx context.Context, habitID string, now calendar.DayKey) (Refreshed, error) {
	out := Refreshed{Goals: []models.Goal{}, Challenges: []models.Challenge{}}

	goals, err := t.store.ListActiveGoalsForHabit(ctx, habitID)
	if err != nil {
		return out, err
	}
	for _, g := range goals {
		g, err = t.refreshGoal(ctx, g, now)
		if err != nil {
			return out, err
		}
		out.Goals = append(out.Goals, g)
	}

	challenges, err := t.store.ListActiveChallengesForHabit(ctx, habitID)
	if err != nil {
		return out, err
	}
	for _, c := range challenges {
		c, err = t.refreshChallenge(ctx, c, now)
		if err != nil {
			return out, err
		}
		out.Challenges = append(out.Challenges, c)
	}
	return out, nil
}
