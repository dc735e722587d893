package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

const goalColumns = `g.id, g.user_id, g.habit_id, g.target_count, g.period, g.start_date, g.end_date, g.current_progress, g.status, g.completed_at, g.created_at`

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var period, start, end, status, createdAt string
	var completedAt sql.NullString

	if err := row.Scan(&g.ID, &g.UserID, &g.HabitID, &g.TargetCount, &period, &start, &end, &g.CurrentProgress, &status, &completedAt, &createdAt); err != nil {
		return models.Goal{}, err
	}
	g.Period = models.GoalPeriod(period)
	g.StartDate = calendar.DayKey(start)
	g.EndDate = calendar.DayKey(end)
	g.Status = models.ProgressStatus(status)

	var err error
	g.CompletedAt, err = parseNullTime(completedAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to parse completed_at for goal %s: %w", g.ID, err)
	}
	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to parse created_at for goal %s: %w", g.ID, err)
	}
	return g, nil
}

func (s *Store) listGoals(ctx context.Context, op, where string, args ...any) ([]models.Goal, error) {
	rows, err := s.query(ctx, `
		SELECT `+goalColumns+`
		FROM goals g
		JOIN habits h ON h.id = g.habit_id
		WHERE h.active = TRUE AND `+where+`
		ORDER BY g.created_at, g.id`, args...)
	if err != nil {
		return nil, s.classify(op, err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, s.classify(op, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(op, err)
	}
	return goals, nil
}

func (s *Store) CreateGoal(ctx context.Context, g models.Goal) error {
	_, err := s.exec(ctx, `
		INSERT INTO goals (id, user_id, habit_id, target_count, period, start_date, end_date, current_progress, status, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.HabitID, g.TargetCount, string(g.Period), string(g.StartDate), string(g.EndDate),
		g.CurrentProgress, string(g.Status), nullTime(g.CompletedAt), formatTime(g.CreatedAt),
	)
	return s.classify("create goal", err)
}

func (s *Store) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	row := s.queryRow(ctx, `SELECT `+goalColumns+` FROM goals g WHERE g.id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		return models.Goal{}, s.classify(fmt.Sprintf("goal %s", id), err)
	}
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.listGoals(ctx, "list goals", `g.user_id = ?`, userID)
}

func (s *Store) ListActiveGoalsForHabit(ctx context.Context, habitID string) ([]models.Goal, error) {
	return s.listGoals(ctx, "list active goals", `g.habit_id = ? AND g.status = 'active'`, habitID)
}

func (s *Store) UpdateGoalProgress(ctx context.Context, g models.Goal) error {
	// Terminal goals are never rewritten
	_, err := s.exec(ctx, `
		UPDATE goals SET current_progress = ?, status = ?, completed_at = ?
		WHERE id = ? AND status = 'active'`,
		g.CurrentProgress, string(g.Status), nullTime(g.CompletedAt), g.ID,
	)
	return s.classify("update goal progress", err)
}
