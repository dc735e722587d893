// Package validation checks user requests and stored data. Request structs
// are validated by tag; Checker compares materialized state against the
// daily logs it is derived from.
package validation

import (
	"context"
	"fmt"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/streak"
)

// ConflictType represents the type of integrity conflict
type ConflictType string

const (
	ConflictStreakDrift        ConflictType = "streak_drift"
	ConflictStaleLastCompleted ConflictType = "stale_last_completed"
	ConflictGoalProgressDrift  ConflictType = "goal_progress_drift"
)

// Conflict represents a stored value that disagrees with the logs
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	HabitName   string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Checker validates a user's stored state
type Checker struct {
	store storage.Store
}

// NewChecker creates a new Checker
func NewChecker(store storage.Store) *Checker {
	return &Checker{store: store}
}

// CheckUser compares the streak states, last-completed caches and active goal
// progress of userID's active habits against their daily logs as of now.
func (c *Checker) CheckUser(ctx context.Context, userID string, now calendar.DayKey) (ValidationResult, error) {
	result := ValidationResult{Conflicts: []Conflict{}}

	habits, err := c.store.ListHabits(ctx, userID, false)
	if err != nil {
		return result, err
	}

	for _, h := range habits {
		days, err := c.store.ListCompletedDays(ctx, h.ID)
		if err != nil {
			return result, err
		}

		state, err := c.store.GetStreakState(ctx, h.ID)
		if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
			return result, err
		}

		want := streak.Compute(days, now, state.LongestStreak)
		if got := state.CurrentAsOf(now); got != want.CurrentStreak || state.LongestStreak != want.LongestStreak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:      ConflictStreakDrift,
				HabitID:   h.ID,
				HabitName: h.Name,
				Description: fmt.Sprintf("Habit %q stores streak %d (longest %d), logs give %d (longest %d)",
					h.Name, got, state.LongestStreak, want.CurrentStreak, want.LongestStreak),
			})
		}

		if len(days) > 0 {
			latest := days[len(days)-1]
			if h.LastCompletedDate == nil || h.LastCompletedDate.Before(latest) {
				cached := "none"
				if h.LastCompletedDate != nil {
					cached = h.LastCompletedDate.String()
				}
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictStaleLastCompleted,
					HabitID:     h.ID,
					HabitName:   h.Name,
					Description: fmt.Sprintf("Habit %q caches last completion %s, latest completed day is %s", h.Name, cached, latest),
				})
			}
		}

		goals, err := c.store.ListActiveGoalsForHabit(ctx, h.ID)
		if err != nil {
			return result, err
		}
		for _, g := range goals {
			count, err := c.store.CountCompletedInRange(ctx, h.ID, g.StartDate, g.EndDate)
			if err != nil {
				return result, err
			}
			if count != g.CurrentProgress {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictGoalProgressDrift,
					HabitID:     h.ID,
					HabitName:   h.Name,
					Description: fmt.Sprintf("Goal %s on %q stores progress %d, logs give %d", g.ID, h.Name, g.CurrentProgress, count),
				})
			}
		}
	}
	return result, nil
}
