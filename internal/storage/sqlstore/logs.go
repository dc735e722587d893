package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

func scanDailyLog(row scanner) (models.DailyLog, error) {
	var l models.DailyLog
	var day, createdAt, updatedAt string

	if err := row.Scan(&l.ID, &l.UserID, &l.HabitID, &day, &l.Completed, &createdAt, &updatedAt); err != nil {
		return models.DailyLog{}, err
	}
	l.Day = calendar.DayKey(day)

	var err error
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to parse created_at for log %s: %w", l.ID, err)
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to parse updated_at for log %s: %w", l.ID, err)
	}
	return l, nil
}

func (s *Store) UpsertDailyLog(ctx context.Context, log models.DailyLog) (models.DailyLog, error) {
	// The WHERE clause makes a repeated write with the same value a no-op,
	// so updated_at only moves when the completed flag flips.
	_, err := s.exec(ctx, `
		INSERT INTO daily_logs (id, user_id, habit_id, day, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, day) DO UPDATE SET
			completed = excluded.completed,
			updated_at = excluded.updated_at
		WHERE daily_logs.completed <> excluded.completed`,
		log.ID, log.UserID, log.HabitID, string(log.Day), log.Completed, formatTime(log.CreatedAt), formatTime(log.UpdatedAt),
	)
	if err != nil {
		return models.DailyLog{}, s.classify("upsert daily log", err)
	}
	return s.GetDailyLog(ctx, log.HabitID, log.Day)
}

func (s *Store) GetDailyLog(ctx context.Context, habitID string, day calendar.DayKey) (models.DailyLog, error) {
	row := s.queryRow(ctx, `
		SELECT id, user_id, habit_id, day, completed, created_at, updated_at
		FROM daily_logs WHERE habit_id = ? AND day = ?`, habitID, string(day))
	l, err := scanDailyLog(row)
	if err != nil {
		return models.DailyLog{}, s.classify(fmt.Sprintf("daily log %s/%s", habitID, day), err)
	}
	return l, nil
}

func (s *Store) ListCompletedDays(ctx context.Context, habitID string) ([]calendar.DayKey, error) {
	rows, err := s.query(ctx, `
		SELECT day FROM daily_logs
		WHERE habit_id = ? AND completed = TRUE
		ORDER BY day ASC`, habitID)
	if err != nil {
		return nil, s.classify("list completed days", err)
	}
	defer rows.Close()

	days := []calendar.DayKey{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, s.classify("list completed days", err)
		}
		days = append(days, calendar.DayKey(day))
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list completed days", err)
	}
	return days, nil
}

func (s *Store) CountCompletedInRange(ctx context.Context, habitID string, start, end calendar.DayKey) (int, error) {
	var count int
	err := s.queryRow(ctx, `
		SELECT COUNT(*) FROM daily_logs
		WHERE habit_id = ? AND completed = TRUE AND day >= ? AND day <= ?`,
		habitID, string(start), string(end)).Scan(&count)
	if err != nil {
		return 0, s.classify("count completed logs", err)
	}
	return count, nil
}

func (s *Store) CountActiveCompletions(ctx context.Context, userID string, start, end calendar.DayKey) (int, error) {
	var count int
	err := s.queryRow(ctx, `
		SELECT COUNT(*) FROM daily_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.user_id = ? AND h.active = TRUE
			AND l.completed = TRUE AND l.day >= ? AND l.day <= ?`,
		userID, string(start), string(end)).Scan(&count)
	if err != nil {
		return 0, s.classify("count active completions", err)
	}
	return count, nil
}
