// Package streak derives current and longest streaks from a habit's
// completion history and keeps the materialized StreakState in sync.
package streak

import (
	"context"
	"sort"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Result is the outcome of a streak computation.
type Result struct {
	CurrentStreak int
	LongestStreak int
	LastCompleted *calendar.DayKey
	// RunCount is the number of runs longer than one day
	RunCount int
	Stage    Stage
}

// Compute walks the completed days of a habit and returns its streaks as of
// now. days may be unsorted and may repeat. priorLongest is the previously
// persisted longest streak, which the result never falls below.
func Compute(days []calendar.DayKey, now calendar.DayKey, priorLongest int) Result {
	sorted := make([]calendar.DayKey, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	res := Result{LongestStreak: priorLongest}
	run := 0
	var prev calendar.DayKey
	for i, d := range sorted {
		switch {
		case i > 0 && d == prev:
			continue
		case i > 0 && d.DaysSince(prev) == 1:
			run++
		default:
			if run > 1 {
				res.RunCount++
			}
			run = 1
		}
		if run > res.LongestStreak {
			res.LongestStreak = run
		}
		prev = d
	}
	if run > 1 {
		res.RunCount++
	}

	if len(sorted) > 0 {
		last := prev
		res.LastCompleted = &last
		if gap := now.DaysSince(last); gap >= 0 && gap <= constants.StreakGraceDays {
			res.CurrentStreak = run
		}
	}

	res.Stage = StageFor(run, res.CurrentStreak > 0)
	return res
}

// Engine recomputes and persists streak states.
type Engine struct {
	store storage.Store
	now   func() time.Time
}

// New returns an engine over store. now defaults to time.Now.
func New(store storage.Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// Recompute rebuilds the streak of habitID as of now and persists it.
// It is idempotent: running it again with the same history and now changes
// nothing but the state's timestamp.
func (e *Engine) Recompute(ctx context.Context, habitID string, now calendar.DayKey) (Result, error) {
	if !now.Valid() {
		return Result{}, apperrors.InvalidInput("invalid day %q", now)
	}

	var res Result
	err := storage.RunInTx(ctx, e.store, func(tx storage.Store) error {
		prior := 0
		state, err := tx.GetStreakState(ctx, habitID)
		switch {
		case err == nil:
			prior = state.LongestStreak
		case apperrors.KindOf(err) != apperrors.KindNotFound:
			return err
		}

		days, err := tx.ListCompletedDays(ctx, habitID)
		if err != nil {
			return err
		}

		res = Compute(days, now, prior)
		saved, err := tx.SaveStreakState(ctx, models.StreakState{
			HabitID:           habitID,
			CurrentStreak:     res.CurrentStreak,
			LongestStreak:     res.LongestStreak,
			LastCompletedDate: res.LastCompleted,
			UpdatedAt:         e.now().UTC(),
		})
		if err != nil {
			return err
		}
		// A concurrent writer may have persisted a longer run
		res.LongestStreak = saved.LongestStreak
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Debug("Recomputed streak", "habit", habitID, "now", now, "current", res.CurrentStreak, "longest", res.LongestStreak)
	return res, nil
}

// RecomputeUser recomputes every active habit of userID. It is the entry
// point for a daily job that lets broken streaks decay to zero.
func (e *Engine) RecomputeUser(ctx context.Context, userID string, now calendar.DayKey) (map[string]Result, error) {
	habits, err := e.store.ListHabits(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	results := make(map[string]Result, len(habits))
	for _, h := range habits {
		res, err := e.Recompute(ctx, h.ID, now)
		if err != nil {
			return nil, err
		}
		results[h.ID] = res
	}
	return results, nil
}

// State returns the persisted streak of habitID, or a zero state for a habit
// that has never been computed.
func (e *Engine) State(ctx context.Context, habitID string) (models.StreakState, error) {
	state, err := e.store.GetStreakState(ctx, habitID)
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		return models.StreakState{HabitID: habitID}, nil
	}
	return state, err
}
