package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

const challengeColumns = `c.id, c.user_id, c.habit_id, c.target_days, c.start_date, c.end_date, c.current_streak, c.last_check_in_date, c.status, c.completed_at, c.created_at`

func scanChallenge(row scanner) (models.Challenge, error) {
	var c models.Challenge
	var start, end, status, createdAt string
	var lastCheckIn, completedAt sql.NullString

	if err := row.Scan(&c.ID, &c.UserID, &c.HabitID, &c.TargetDays, &start, &end, &c.CurrentStreak, &lastCheckIn, &status, &completedAt, &createdAt); err != nil {
		return models.Challenge{}, err
	}
	c.StartDate = calendar.DayKey(start)
	c.EndDate = calendar.DayKey(end)
	c.LastCheckInDate = dayPtr(lastCheckIn)
	c.Status = models.ProgressStatus(status)

	var err error
	c.CompletedAt, err = parseNullTime(completedAt)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse completed_at for challenge %s: %w", c.ID, err)
	}
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse created_at for challenge %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) listChallenges(ctx context.Context, op, where string, args ...any) ([]models.Challenge, error) {
	rows, err := s.query(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.active = TRUE AND `+where+`
		ORDER BY c.created_at, c.id`, args...)
	if err != nil {
		return nil, s.classify(op, err)
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, s.classify(op, err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(op, err)
	}
	return challenges, nil
}

func (s *Store) CreateChallenge(ctx context.Context, c models.Challenge) error {
	_, err := s.exec(ctx, `
		INSERT INTO challenges (id, user_id, habit_id, target_days, start_date, end_date, current_streak, last_check_in_date, status, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.HabitID, c.TargetDays, string(c.StartDate), string(c.EndDate), c.CurrentStreak,
		nullDay(c.LastCheckInDate), string(c.Status), nullTime(c.CompletedAt), formatTime(c.CreatedAt),
	)
	return s.classify("create challenge", err)
}

func (s *Store) GetChallenge(ctx context.Context, id string) (models.Challenge, error) {
	row := s.queryRow(ctx, `SELECT `+challengeColumns+` FROM challenges c WHERE c.id = ?`, id)
	c, err := scanChallenge(row)
	if err != nil {
		return models.Challenge{}, s.classify(fmt.Sprintf("challenge %s", id), err)
	}
	return c, nil
}

func (s *Store) ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error) {
	return s.listChallenges(ctx, "list challenges", `c.user_id = ?`, userID)
}

func (s *Store) ListActiveChallengesForHabit(ctx context.Context, habitID string) ([]models.Challenge, error) {
	return s.listChallenges(ctx, "list active challenges", `c.habit_id = ? AND c.status = 'active'`, habitID)
}

func (s *Store) UpdateChallengeProgress(ctx context.Context, c models.Challenge) error {
	_, err := s.exec(ctx, `
		UPDATE challenges SET current_streak = ?, last_check_in_date = ?, status = ?, completed_at = ?
		WHERE id = ? AND status = 'active'`,
		c.CurrentStreak, nullDay(c.LastCheckInDate), string(c.Status), nullTime(c.CompletedAt), c.ID,
	)
	return s.classify("update challenge progress", err)
}
