package streak

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

func logOf(habitID, userID string, day calendar.DayKey, completed bool) models.DailyLog {
	now := time.Now().UTC()
	return models.DailyLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		HabitID:   habitID,
		Day:       day,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
