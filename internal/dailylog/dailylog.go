// Package dailylog records one completion value per habit and calendar day.
package dailylog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Adapter is the only writer of daily logs and of the habit's
// last-completed cache.
type Adapter struct {
	store storage.Store
	now   func() time.Time
}

// New returns an adapter over store. now defaults to time.Now.
func New(store storage.Store, now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{store: store, now: now}
}

// RecordCompletion sets the completion value of habitID on day. Recording the
// value already stored is a no-op; a different value overwrites it in place.
func (a *Adapter) RecordCompletion(ctx context.Context, habitID string, day calendar.DayKey, completed bool) (models.DailyLog, error) {
	if !day.Valid() {
		return models.DailyLog{}, apperrors.InvalidInput("invalid day %q", day)
	}

	var log models.DailyLog
	err := storage.RunInTx(ctx, a.store, func(tx storage.Store) error {
		habit, err := tx.GetHabit(ctx, habitID)
		if err != nil {
			return err
		}
		if !habit.Active {
			return apperrors.NotFound("habit %s is inactive", habitID)
		}

		now := a.now().UTC()
		log, err = tx.UpsertDailyLog(ctx, models.DailyLog{
			ID:        uuid.NewString(),
			UserID:    habit.UserID,
			HabitID:   habitID,
			Day:       day,
			Completed: completed,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		if completed {
			if err := tx.SetLastCompletedDate(ctx, habitID, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.DailyLog{}, err
	}

	logger.Debug("Recorded completion", "habit", habitID, "day", day, "completed", log.Completed)
	return log, nil
}

// Get returns the log of habitID on day.
func (a *Adapter) Get(ctx context.Context, habitID string, day calendar.DayKey) (models.DailyLog, error) {
	return a.store.GetDailyLog(ctx, habitID, day)
}
