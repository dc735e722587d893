// Package testutil provides fixtures shared by the engine package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

// Clock is a settable wall clock for deterministic "now".
//
// Thread-safe: all methods are safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current frozen instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NoonUTC returns 12:00 UTC on day, a safe instant for UTC-normalized tests.
func NoonUTC(day calendar.DayKey) time.Time {
	return day.Time().Add(12 * time.Hour)
}

// NewStore returns an initialized SQLite store in a temp dir, closed on cleanup.
func NewStore(t testing.TB) *sqlite.Store {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "daystreak.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

// CreateHabit inserts an active habit for userID.
func CreateHabit(t testing.TB, store *sqlite.Store, userID, name string) models.Habit {
	t.Helper()

	h := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Category:  models.CategoryOther,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateHabit(context.Background(), h))
	return h
}

// Complete writes completed logs for habit on each day, bypassing the engine.
func Complete(t testing.TB, store *sqlite.Store, habit models.Habit, days ...calendar.DayKey) {
	t.Helper()

	now := time.Now().UTC()
	for _, d := range days {
		_, err := store.UpsertDailyLog(context.Background(), models.DailyLog{
			ID:        uuid.NewString(),
			UserID:    habit.UserID,
			HabitID:   habit.ID,
			Day:       d,
			Completed: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		require.NoError(t, err)
	}
}

// Days returns n consecutive days ending at last, oldest first.
func Days(last calendar.DayKey, n int) []calendar.DayKey {
	days := make([]calendar.DayKey, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, last.AddDays(-i))
	}
	return days
}
