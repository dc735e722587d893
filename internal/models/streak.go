package models

import (
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/constants"
)

// StreakState is the materialized streak of one habit. It can always be
// rebuilt from the habit's daily logs.
type StreakState struct {
	HabitID           string           `json:"habit_id"`
	CurrentStreak     int              `json:"current_streak"`
	LongestStreak     int              `json:"longest_streak"` // never decreases
	LastCompletedDate *calendar.DayKey `json:"last_completed_date,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// IsCurrent reports whether the stored run still ends within the grace
// window of now (today or yesterday).
func (s StreakState) IsCurrent(now calendar.DayKey) bool {
	if s.LastCompletedDate == nil || s.CurrentStreak == 0 {
		return false
	}
	return now.DaysSince(*s.LastCompletedDate) <= constants.StreakGraceDays
}

// CurrentAsOf returns the current streak as seen from now: a stored run whose
// last day has fallen out of the grace window no longer counts.
func (s StreakState) CurrentAsOf(now calendar.DayKey) int {
	if !s.IsCurrent(now) {
		return 0
	}
	return s.CurrentStreak
}
