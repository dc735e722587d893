package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/julianstephens/daystreak/internal/calendar"
)

type HabitCategory string

const (
	CategoryHealth       HabitCategory = "Health"
	CategoryProductivity HabitCategory = "Productivity"
	CategoryLearning     HabitCategory = "Learning"
	CategoryMindfulness  HabitCategory = "Mindfulness"
	CategoryOther        HabitCategory = "Other"
)

// Valid reports whether c is a known category
func (c HabitCategory) Valid() bool {
	switch c {
	case CategoryHealth, CategoryProductivity, CategoryLearning, CategoryMindfulness, CategoryOther:
		return true
	}
	return false
}

// HabitNameKey canonicalizes a habit name for per-user uniqueness: trimmed,
// NFC-normalized and case-folded.
func HabitNameKey(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Habit represents a recurring practice to track. Habits are never hard-deleted;
// deactivation removes them from every aggregate.
type Habit struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Category          HabitCategory    `json:"category"`
	Active            bool             `json:"active"`
	LastCompletedDate *calendar.DayKey `json:"last_completed_date,omitempty"` // cache, written by the log adapter
	CreatedAt         time.Time        `json:"created_at"`
	DeactivatedAt     *time.Time       `json:"deactivated_at,omitempty"` // RFC3339 timestamp
}

// DailyLog is the single completion record of a habit for one calendar day
type DailyLog struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	HabitID   string          `json:"habit_id"`
	Day       calendar.DayKey `json:"day"` // YYYY-MM-DD format
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
