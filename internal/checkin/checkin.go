// Package checkin runs a completion event through the whole engine: day
// normalization, the daily log, the streak, goals and challenges, and
// achievements.
package checkin

import (
	"context"
	"time"

	"github.com/julianstephens/daystreak/internal/achievements"
	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/dailylog"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/progress"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/streak"
	"github.com/julianstephens/daystreak/internal/validation"
)

// Request is one completion event. A nil Instant means now; Timezone is the
// user's IANA zone, empty for the process-local zone.
type Request struct {
	UserID    string `validate:"notblank"`
	HabitID   string `validate:"notblank"`
	Instant   *time.Time
	Timezone  string
	Completed bool
}

// Result is everything a check-in changed.
type Result struct {
	Day        calendar.DayKey
	Today      calendar.DayKey
	Log        models.DailyLog
	Streak     streak.Result
	Goals      []models.Goal
	Challenges []models.Challenge
	Unlocked   []models.Achievement
}

// Service processes check-ins. It is safe for concurrent use: check-ins of
// the same habit are serialized, all others run in parallel.
type Service struct {
	store      storage.Store
	rules      []achievements.Rule
	normalizer *calendar.Normalizer
	now        func() time.Time
	locks      *habitLocks
}

// New returns a service over store. A nil rules slice selects the built-in
// achievement table; now defaults to time.Now.
func New(store storage.Store, rules []achievements.Rule, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if rules == nil {
		rules = achievements.DefaultRules()
	}
	return &Service{
		store:      store,
		rules:      rules,
		normalizer: calendar.NewNormalizer(now),
		now:        now,
		locks:      newHabitLocks(),
	}
}

// CheckIn records req and brings every derived value up to date in one
// transaction. Each step is idempotent, so a failed check-in can be retried
// as a whole.
func (s *Service) CheckIn(ctx context.Context, req Request) (Result, error) {
	if err := validation.Struct(req); err != nil {
		return Result{}, err
	}

	day, err := s.normalizer.Normalize(req.Instant, req.Timezone)
	if err != nil {
		return Result{}, err
	}
	today, err := s.normalizer.Today(req.Timezone)
	if err != nil {
		return Result{}, err
	}

	unlock := s.locks.lock(req.HabitID)
	defer unlock()

	res := Result{Day: day, Today: today}
	err = storage.RunInTx(ctx, s.store, func(tx storage.Store) error {
		habit, err := tx.GetHabit(ctx, req.HabitID)
		if err != nil {
			return err
		}
		if habit.UserID != req.UserID {
			return apperrors.NotFound("habit %s not found", req.HabitID)
		}

		if res.Log, err = dailylog.New(tx, s.now).RecordCompletion(ctx, habit.ID, day, req.Completed); err != nil {
			return err
		}
		if res.Streak, err = streak.New(tx, s.now).Recompute(ctx, habit.ID, today); err != nil {
			return err
		}

		refreshed, err := progress.New(tx, s.now).RefreshForHabit(ctx, habit.ID, today)
		if err != nil {
			return err
		}
		res.Goals, res.Challenges = refreshed.Goals, refreshed.Challenges

		res.Unlocked, err = achievements.New(tx, s.rules, s.now).Evaluate(ctx, req.UserID, today)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("Check-in recorded", "user", req.UserID, "habit", req.HabitID, "day", day,
		"completed", req.Completed, "streak", res.Streak.CurrentStreak, "unlocked", len(res.Unlocked))
	return res, nil
}
