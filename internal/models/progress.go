package models

import (
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
)

// ProgressStatus is the state of a goal or challenge
type ProgressStatus string

const (
	StatusActive    ProgressStatus = "active"
	StatusCompleted ProgressStatus = "completed"
	StatusFailed    ProgressStatus = "failed"
)

// Terminal reports whether no further transition is allowed
func (s ProgressStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type GoalPeriod string

const (
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
)

// Goal asks for TargetCount completions of a habit within [StartDate, EndDate]
type Goal struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	HabitID         string          `json:"habit_id"`
	TargetCount     int             `json:"target_count"`
	Period          GoalPeriod      `json:"period"`
	StartDate       calendar.DayKey `json:"start_date"`
	EndDate         calendar.DayKey `json:"end_date"` // inclusive
	CurrentProgress int             `json:"current_progress"`
	Status          ProgressStatus  `json:"status"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Challenge asks for a streak of TargetDays consecutive days before EndDate.
// CurrentStreak mirrors the habit's StreakState.
type Challenge struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	HabitID         string           `json:"habit_id"`
	TargetDays      int              `json:"target_days"`
	StartDate       calendar.DayKey  `json:"start_date"`
	EndDate         calendar.DayKey  `json:"end_date"` // inclusive
	CurrentStreak   int              `json:"current_streak"`
	LastCheckInDate *calendar.DayKey `json:"last_check_in_date,omitempty"`
	Status          ProgressStatus   `json:"status"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
