// Package stats rolls a user's active habits up into the metrics that
// achievement rules are written against.
package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Metric names one field of Stats.
type Metric string

const (
	MetricActiveHabitCount     Metric = "active_habit_count"
	MetricMaxStreak            Metric = "max_streak"
	MetricWeeklyCompletionRate Metric = "weekly_completion_rate"
	MetricTotalCompletedDays   Metric = "total_completed_days"
)

// Metrics lists every known metric
var Metrics = []Metric{
	MetricActiveHabitCount,
	MetricMaxStreak,
	MetricWeeklyCompletionRate,
	MetricTotalCompletedDays,
}

// Valid reports whether m is a known metric
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// Stats is a per-user rollup over active habits only.
type Stats struct {
	ActiveHabitCount int `json:"active_habit_count"`
	// MaxStreak is the best of every active habit's current and longest streak
	MaxStreak int `json:"max_streak"`
	// WeeklyCompletionRate is a 0-100 percentage over the trailing 7 days
	WeeklyCompletionRate int `json:"weekly_completion_rate"`
	// TotalCompletedDays counts habit-days, not distinct calendar days
	TotalCompletedDays int `json:"total_completed_days"`
}

// Value returns the value of metric m.
func (s Stats) Value(m Metric) (int, error) {
	switch m {
	case MetricActiveHabitCount:
		return s.ActiveHabitCount, nil
	case MetricMaxStreak:
		return s.MaxStreak, nil
	case MetricWeeklyCompletionRate:
		return s.WeeklyCompletionRate, nil
	case MetricTotalCompletedDays:
		return s.TotalCompletedDays, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", apperrors.ErrInvalidInput, m)
	}
}

// WeeklyRate returns round(100 * completed / (habits * 7)), 0 without habits.
func WeeklyRate(completed, habits int) int {
	if habits <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(habits*constants.WeeklyWindowDays)))
}

// Calculator computes Stats from the store.
type Calculator struct {
	store storage.Store
}

func New(store storage.Store) *Calculator {
	return &Calculator{store: store}
}

// ComputeUserStats returns the rollup of userID as of now. Inactive habits are
// excluded by the store queries themselves.
func (c *Calculator) ComputeUserStats(ctx context.Context, userID string, now calendar.DayKey) (Stats, error) {
	if !now.Valid() {
		return Stats{}, apperrors.InvalidInput("invalid day %q", now)
	}

	habits, err := c.store.ListHabits(ctx, userID, false)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	s.ActiveHabitCount = len(habits)

	states, err := c.store.ListActiveStreakStates(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	for _, st := range states {
		best := st.LongestStreak
		if cur := st.CurrentAsOf(now); cur > best {
			best = cur
		}
		if best > s.MaxStreak {
			s.MaxStreak = best
		}
	}

	windowStart := now.AddDays(-(constants.WeeklyWindowDays - 1))
	weekly, err := c.store.CountActiveCompletions(ctx, userID, windowStart, now)
	if err != nil {
		return Stats{}, err
	}
	s.WeeklyCompletionRate = WeeklyRate(weekly, s.ActiveHabitCount)

	s.TotalCompletedDays, err = c.store.CountActiveCompletions(ctx, userID, calendar.MinDay, calendar.MaxDay)
	if err != nil {
		return Stats{}, err
	}

	return s, nil
}
