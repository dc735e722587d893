package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/models"
)

const habitColumns = `id, user_id, name, description, category, active, last_completed_date, created_at, deactivated_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, createdAt string
	var lastCompleted, deactivatedAt sql.NullString

	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &category, &h.Active, &lastCompleted, &createdAt, &deactivatedAt); err != nil {
		return models.Habit{}, err
	}

	h.Category = models.HabitCategory(category)
	h.LastCompletedDate = dayPtr(lastCompleted)

	var err error
	h.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.DeactivatedAt, err = parseNullTime(deactivatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse deactivated_at for habit %s: %w", h.ID, err)
	}

	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.exec(ctx, `
		INSERT INTO habits (id, user_id, name, name_key, description, category, active, last_completed_date, created_at, deactivated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name, models.HabitNameKey(habit.Name), habit.Description, string(habit.Category),
		habit.Active, nullDay(habit.LastCompletedDate), formatTime(habit.CreatedAt), nullTime(habit.DeactivatedAt),
	)
	if s.isUniqueViolation(err) {
		return apperrors.Conflict("habit named %q already exists", habit.Name)
	}
	return s.classify("create habit", err)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.queryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, s.classify(fmt.Sprintf("habit %s", id), err)
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeInactive {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.query(ctx, query, userID)
	if err != nil {
		return nil, s.classify("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, s.classify("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list habits", err)
	}
	return habits, nil
}

func (s *Store) SetHabitActive(ctx context.Context, id string, active bool, at time.Time) error {
	var deactivatedAt sql.NullString
	if !active {
		deactivatedAt = nullTime(&at)
	}

	res, err := s.exec(ctx, `UPDATE habits SET active = ?, deactivated_at = ? WHERE id = ?`, active, deactivatedAt, id)
	if err != nil {
		return s.classify("set habit active", err)
	}
	return requireAffected(res, fmt.Sprintf("habit %s", id))
}

func (s *Store) SetLastCompletedDate(ctx context.Context, habitID string, day calendar.DayKey) error {
	res, err := s.exec(ctx, `UPDATE habits SET last_completed_date = ? WHERE id = ?`, string(day), habitID)
	if err != nil {
		return s.classify("set last completed date", err)
	}
	return requireAffected(res, fmt.Sprintf("habit %s", habitID))
}
