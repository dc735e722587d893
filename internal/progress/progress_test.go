package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/streak"
	"github.com/julianstephens/daystreak/internal/testutil"
)

const today = calendar.DayKey("2024-05-10")

func dayPtr(d calendar.DayKey) *calendar.DayKey { return &d }

func TestGoalEndDate(t *testing.T) {
	assert.Equal(t, calendar.DayKey("2024-05-17"), GoalEndDate(today, models.PeriodWeekly))
	assert.Equal(t, calendar.DayKey("2024-06-10"), GoalEndDate(today, models.PeriodMonthly))
}

func TestEvaluateGoal(t *testing.T) {
	at := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	base := models.Goal{TargetCount: 5, StartDate: "2024-05-01", EndDate: "2024-05-08", Status: models.StatusActive}

	tests := []struct {
		name     string
		goal     models.Goal
		progress int
		now      calendar.DayKey
		want     models.ProgressStatus
	}{
		{"in window below target", base, 3, "2024-05-05", models.StatusActive},
		{"last day below target", base, 3, "2024-05-08", models.StatusActive},
		{"target reached", base, 5, "2024-05-05", models.StatusCompleted},
		{"past end below target", base, 3, "2024-05-09", models.StatusFailed},
		{"past end but target reached", base, 6, "2024-05-20", models.StatusCompleted},
		{"failed stays failed", withStatus(base, models.StatusFailed), 9, "2024-05-05", models.StatusFailed},
		{"completed stays completed", withStatus(base, models.StatusCompleted), 0, "2024-05-20", models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGoal(tt.goal, tt.progress, tt.now, at)
			assert.Equal(t, tt.want, got.Status)
			if tt.want == models.StatusCompleted && !tt.goal.Status.Terminal() {
				require.NotNil(t, got.CompletedAt)
				assert.Equal(t, at, *got.CompletedAt)
			}
			if tt.goal.Status.Terminal() {
				assert.Equal(t, tt.goal, got)
			}
		})
	}
}

func withStatus(g models.Goal, s models.ProgressStatus) models.Goal {
	g.Status = s
	return g
}

func TestEvaluateChallengeReadsCurrentStreak(t *testing.T) {
	at := time.Now().UTC()
	c := models.Challenge{TargetDays: 5, StartDate: "2024-05-01", EndDate: "2024-05-31", Status: models.StatusActive}

	// A run that ended three days ago no longer counts
	stale := models.StreakState{CurrentStreak: 6, LongestStreak: 6, LastCompletedDate: dayPtr("2024-05-07")}
	got := EvaluateChallenge(c, stale, today, at)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, 0, got.CurrentStreak)

	live := models.StreakState{CurrentStreak: 5, LongestStreak: 6, LastCompletedDate: dayPtr(today)}
	got = EvaluateChallenge(c, live, today, at)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 5, got.CurrentStreak)
	assert.Equal(t, dayPtr(today), got.LastCheckInDate)
}

func TestGoalPastEndDateFailsAndNeverReverts(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")
	start := today.AddDays(-20)
	testutil.Complete(t, store, h, start, start.AddDays(1), start.AddDays(2))

	g, err := tracker.CreateGoal(ctx, GoalRequest{
		UserID:      "u1",
		HabitID:     h.ID,
		TargetCount: 5,
		Period:      models.PeriodWeekly,
		StartDate:   start,
	}, today)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, g.Status)
	assert.Equal(t, 3, g.CurrentProgress)

	// Backfilled completions inside the window do not revive it
	testutil.Complete(t, store, h, start.AddDays(3), start.AddDays(4), start.AddDays(5))

	got, err := tracker.Goal(ctx, g.ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, 3, got.CurrentProgress)

	goals, err := tracker.ListGoals(ctx, "u1", today)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, models.StatusFailed, goals[0].Status)
}

func TestGoalCompletesOnRefreshAndStaysCompleted(t *testing.T) {
	store := testutil.NewStore(t)
	clock := testutil.NewClock(testutil.NoonUTC(today))
	tracker := New(store, clock.Now)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")
	g, err := tracker.CreateGoal(ctx, GoalRequest{UserID: "u1", HabitID: h.ID, TargetCount: 2, Period: models.PeriodWeekly}, today)
	require.NoError(t, err)
	assert.Equal(t, today, g.StartDate)
	assert.Equal(t, today.AddDays(7), g.EndDate)
	assert.Equal(t, models.StatusActive, g.Status)

	testutil.Complete(t, store, h, today, today.AddDays(1))
	refreshed, err := tracker.RefreshForHabit(ctx, h.ID, today.AddDays(1))
	require.NoError(t, err)
	require.Len(t, refreshed.Goals, 1)
	assert.Equal(t, models.StatusCompleted, refreshed.Goals[0].Status)
	require.NotNil(t, refreshed.Goals[0].CompletedAt)

	// Un-completing a day does not reopen it
	_, err = store.UpsertDailyLog(ctx, models.DailyLog{
		ID: uuid.NewString(), UserID: "u1", HabitID: h.ID, Day: today,
		Completed: false, CreatedAt: clock.Now(), UpdatedAt: clock.Now(),
	})
	require.NoError(t, err)

	got, err := tracker.Goal(ctx, g.ID, today.AddDays(2))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 2, got.CurrentProgress)

	refreshed, err = tracker.RefreshForHabit(ctx, h.ID, today.AddDays(2))
	require.NoError(t, err)
	assert.Empty(t, refreshed.Goals)
}

func TestCreateGoalCountsExistingLogs(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)

	h := testutil.CreateHabit(t, store, "u1", "Read")
	testutil.Complete(t, store, h, today.AddDays(-1), today)

	g, err := tracker.CreateGoal(context.Background(), GoalRequest{
		UserID: "u1", HabitID: h.ID, TargetCount: 4, Period: models.PeriodMonthly, StartDate: today.AddDays(-3),
	}, today)
	require.NoError(t, err)
	assert.Equal(t, 2, g.CurrentProgress)
	assert.Equal(t, models.StatusActive, g.Status)
}

func TestCreateGoalRejections(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")

	_, err := tracker.CreateGoal(ctx, GoalRequest{UserID: "u1", HabitID: h.ID, TargetCount: 0, Period: models.PeriodWeekly}, today)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = tracker.CreateGoal(ctx, GoalRequest{UserID: "u1", HabitID: h.ID, TargetCount: 3, Period: "daily"}, today)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = tracker.CreateGoal(ctx, GoalRequest{UserID: "u2", HabitID: h.ID, TargetCount: 3, Period: models.PeriodWeekly}, today)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = tracker.CreateGoal(ctx, GoalRequest{UserID: "u1", HabitID: "missing", TargetCount: 3, Period: models.PeriodWeekly}, today)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	require.NoError(t, store.SetHabitActive(ctx, h.ID, false, time.Now()))
	_, err = tracker.CreateGoal(ctx, GoalRequest{UserID: "u1", HabitID: h.ID, TargetCount: 3, Period: models.PeriodWeekly}, today)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestChallengeFollowsStreakState(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)
	engine := streak.New(store, nil)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")
	c, err := tracker.CreateChallenge(ctx, ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 3, DurationDays: 10}, today)
	require.NoError(t, err)
	assert.Equal(t, today.AddDays(10), c.EndDate)
	assert.Equal(t, models.StatusActive, c.Status)

	// Logs alone do not move a challenge; the streak state does
	testutil.Complete(t, store, h, testutil.Days(today.AddDays(2), 3)...)
	got, err := tracker.Challenge(ctx, c.ID, today.AddDays(2))
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, models.StatusActive, got.Status)

	_, err = engine.Recompute(ctx, h.ID, today.AddDays(2))
	require.NoError(t, err)
	refreshed, err := tracker.RefreshForHabit(ctx, h.ID, today.AddDays(2))
	require.NoError(t, err)
	require.Len(t, refreshed.Challenges, 1)
	assert.Equal(t, 3, refreshed.Challenges[0].CurrentStreak)
	assert.Equal(t, models.StatusCompleted, refreshed.Challenges[0].Status)
}

func TestChallengeExpires(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")
	c, err := tracker.CreateChallenge(ctx, ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 3, DurationDays: 3}, today)
	require.NoError(t, err)

	challenges, err := tracker.ListChallenges(ctx, "u1", today.AddDays(4))
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, c.ID, challenges[0].ID)
	assert.Equal(t, models.StatusFailed, challenges[0].Status)

	stored, err := store.GetChallenge(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
}

func TestCreateChallengeRejections(t *testing.T) {
	store := testutil.NewStore(t)
	tracker := New(store, nil)
	ctx := context.Background()

	h := testutil.CreateHabit(t, store, "u1", "Read")

	tests := []struct {
		name string
		req  ChallengeRequest
	}{
		{"target below minimum", ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 2, DurationDays: 10}},
		{"duration shorter than target", ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 7, DurationDays: 5}},
		{"duration above maximum", ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 7, DurationDays: 400}},
		{"bad start date", ChallengeRequest{UserID: "u1", HabitID: h.ID, TargetDays: 3, DurationDays: 5, StartDate: "05/10/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracker.CreateChallenge(ctx, tt.req, today)
			assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
		})
	}
}
