package dailylog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/testutil"
)

func TestRecordCompletionIsIdempotent(t *testing.T) {
	store := testutil.NewStore(t)
	clock := testutil.NewClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	adapter := New(store, clock.Now)
	habit := testutil.CreateHabit(t, store, "u1", "Read")
	ctx := context.Background()

	first, err := adapter.RecordCompletion(ctx, habit.ID, "2024-05-10", true)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	clock.Advance(time.Hour)
	second, err := adapter.RecordCompletion(ctx, habit.ID, "2024-05-10", true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt), "same-value write must not touch updated_at")

	days, err := store.ListCompletedDays(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, []calendar.DayKey{"2024-05-10"}, days)
}

func TestRecordCompletionOverwrites(t *testing.T) {
	store := testutil.NewStore(t)
	clock := testutil.NewClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	adapter := New(store, clock.Now)
	habit := testutil.CreateHabit(t, store, "u1", "Read")
	ctx := context.Background()

	first, err := adapter.RecordCompletion(ctx, habit.ID, "2024-05-10", true)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	flipped, err := adapter.RecordCompletion(ctx, habit.ID, "2024-05-10", false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, flipped.ID)
	assert.False(t, flipped.Completed)
	assert.True(t, flipped.UpdatedAt.After(first.UpdatedAt))

	days, err := store.ListCompletedDays(ctx, habit.ID)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestRecordCompletionUpdatesLastCompletedDate(t *testing.T) {
	store := testutil.NewStore(t)
	adapter := New(store, nil)
	habit := testutil.CreateHabit(t, store, "u1", "Read")
	ctx := context.Background()

	_, err := adapter.RecordCompletion(ctx, habit.ID, "2024-05-09", true)
	require.NoError(t, err)

	got, err := store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastCompletedDate)
	assert.Equal(t, calendar.DayKey("2024-05-09"), *got.LastCompletedDate)

	_, err = adapter.RecordCompletion(ctx, habit.ID, "2024-05-10", false)
	require.NoError(t, err)

	got, err = store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.DayKey("2024-05-09"), *got.LastCompletedDate, "a non-completion must not move the cache")
}

func TestRecordCompletionErrors(t *testing.T) {
	store := testutil.NewStore(t)
	adapter := New(store, nil)
	habit := testutil.CreateHabit(t, store, "u1", "Read")
	inactive := testutil.CreateHabit(t, store, "u1", "Run")
	ctx := context.Background()
	require.NoError(t, store.SetHabitActive(ctx, inactive.ID, false, time.Now()))

	tests := []struct {
		name    string
		habitID string
		day     calendar.DayKey
		want    apperrors.Kind
	}{
		{name: "invalid day", habitID: habit.ID, day: "2024-13-01", want: apperrors.KindInvalidInput},
		{name: "empty day", habitID: habit.ID, day: "", want: apperrors.KindInvalidInput},
		{name: "missing habit", habitID: "nope", day: "2024-05-10", want: apperrors.KindNotFound},
		{name: "inactive habit", habitID: inactive.ID, day: "2024-05-10", want: apperrors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.RecordCompletion(ctx, tt.habitID, tt.day, true)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}

	_, err := store.GetDailyLog(ctx, inactive.ID, "2024-05-10")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err), "no log may be written for an inactive habit")
}
