package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/daystreak/internal/models"
)

func scanStreakState(row scanner) (models.StreakState, error) {
	var st models.StreakState
	var lastCompleted sql.NullString
	var updatedAt string

	if err := row.Scan(&st.HabitID, &st.CurrentStreak, &st.LongestStreak, &lastCompleted, &updatedAt); err != nil {
		return models.StreakState{}, err
	}
	st.LastCompletedDate = dayPtr(lastCompleted)

	var err error
	st.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return models.StreakState{}, fmt.Errorf("failed to parse updated_at for streak %s: %w", st.HabitID, err)
	}
	return st, nil
}

func (s *Store) GetStreakState(ctx context.Context, habitID string) (models.StreakState, error) {
	row := s.queryRow(ctx, `
		SELECT habit_id, current_streak, longest_streak, last_completed_date, updated_at
		FROM streak_states WHERE habit_id = ?`, habitID)
	st, err := scanStreakState(row)
	if err != nil {
		return models.StreakState{}, s.classify(fmt.Sprintf("streak state %s", habitID), err)
	}
	return st, nil
}

func (s *Store) SaveStreakState(ctx context.Context, state models.StreakState) (models.StreakState, error) {
	// longest_streak is merged in SQL so that a concurrent writer holding a
	// stale value can never lower it.
	query := fmt.Sprintf(`
		INSERT INTO streak_states (habit_id, current_streak, longest_streak, last_completed_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (habit_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = %s(streak_states.longest_streak, excluded.longest_streak),
			last_completed_date = excluded.last_completed_date,
			updated_at = excluded.updated_at`, s.dialect.Greatest)

	_, err := s.exec(ctx, query,
		state.HabitID, state.CurrentStreak, state.LongestStreak, nullDay(state.LastCompletedDate), formatTime(state.UpdatedAt),
	)
	if err != nil {
		return models.StreakState{}, s.classify("save streak state", err)
	}
	return s.GetStreakState(ctx, state.HabitID)
}

func (s *Store) ListActiveStreakStates(ctx context.Context, userID string) ([]models.StreakState, error) {
	rows, err := s.query(ctx, `
		SELECT st.habit_id, st.current_streak, st.longest_streak, st.last_completed_date, st.updated_at
		FROM streak_states st
		JOIN habits h ON h.id = st.habit_id
		WHERE h.user_id = ? AND h.active = TRUE
		ORDER BY st.habit_id`, userID)
	if err != nil {
		return nil, s.classify("list streak states", err)
	}
	defer rows.Close()

	states := []models.StreakState{}
	for rows.Next() {
		st, err := scanStreakState(rows)
		if err != nil {
			return nil, s.classify("list streak states", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list streak states", err)
	}
	return states, nil
}
