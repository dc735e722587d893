package models

import "time"

type AchievementCategory string

const (
	AchievementStreaks     AchievementCategory = "streaks"
	AchievementCompletion  AchievementCategory = "completion"
	AchievementConsistency AchievementCategory = "consistency"
	AchievementMilestones  AchievementCategory = "milestones"
	AchievementSpecial     AchievementCategory = "special"
)

// Valid reports whether c is a known category
func (c AchievementCategory) Valid() bool {
	switch c {
	case AchievementStreaks, AchievementCompletion, AchievementConsistency, AchievementMilestones, AchievementSpecial:
		return true
	}
	return false
}

// Achievement is an unlocked rule for a user. (UserID, AchievementID) is unique
// and the row is never modified after insertion.
type Achievement struct {
	UserID        string              `json:"user_id"`
	AchievementID string              `json:"achievement_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Icon          string              `json:"icon"`
	Category      AchievementCategory `json:"category"`
	Points        int                 `json:"points"`
	UnlockedAt    time.Time           `json:"unlocked_at"`
}
