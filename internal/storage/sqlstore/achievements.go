package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
)

func (s *Store) ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	rows, err := s.query(ctx, `
		SELECT user_id, achievement_id, title, description, icon, category, points, unlocked_at
		FROM achievements WHERE user_id = ?
		ORDER BY unlocked_at, achievement_id`, userID)
	if err != nil {
		return nil, s.classify("list achievements", err)
	}
	defer rows.Close()

	achievements := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		var category, unlockedAt string
		if err := rows.Scan(&a.UserID, &a.AchievementID, &a.Title, &a.Description, &a.Icon, &category, &a.Points, &unlockedAt); err != nil {
			return nil, s.classify("list achievements", err)
		}
		a.Category = models.AchievementCategory(category)
		a.UnlockedAt, err = parseTime(unlockedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse unlocked_at for achievement %s: %w", a.AchievementID, err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("list achievements", err)
	}
	return achievements, nil
}

func (s *Store) InsertAchievement(ctx context.Context, a models.Achievement) (bool, error) {
	res, err := s.exec(ctx, `
		INSERT INTO achievements (user_id, achievement_id, title, description, icon, category, points, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		a.UserID, a.AchievementID, a.Title, a.Description, a.Icon, string(a.Category), a.Points, formatTime(a.UnlockedAt),
	)
	if s.isUniqueViolation(err) {
		logger.Debug("Achievement already unlocked", "user", a.UserID, "achievement", a.AchievementID)
		return false, nil
	}
	if err != nil {
		return false, s.classify("insert achievement", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, s.classify("insert achievement", err)
	}
	return n > 0, nil
}
