package storage

import (
	"context"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/models"
)

// Store is the persistence contract the engine works against. Every method
// returns errors classified by internal/errors: NotFound, Conflict or Internal.
type Store interface {
	// Habits
	CreateHabit(ctx context.Context, habit models.Habit) error
	// GetHabit returns the habit regardless of its active flag
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	ListHabits(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error)
	SetHabitActive(ctx context.Context, id string, active bool, at time.Time) error
	SetLastCompletedDate(ctx context.Context, habitID string, day calendar.DayKey) error

	// Daily logs
	// UpsertDailyLog inserts the log or overwrites its completed flag. A write
	// with an unchanged value leaves the stored row untouched.
	UpsertDailyLog(ctx context.Context, log models.DailyLog) (models.DailyLog, error)
	GetDailyLog(ctx context.Context, habitID string, day calendar.DayKey) (models.DailyLog, error)
	// ListCompletedDays returns the completed days of a habit in ascending order
	ListCompletedDays(ctx context.Context, habitID string) ([]calendar.DayKey, error)
	// CountCompletedInRange counts completed logs of a habit with start <= day <= end
	CountCompletedInRange(ctx context.Context, habitID string, start, end calendar.DayKey) (int, error)
	// CountActiveCompletions counts completed logs across the user's active habits
	// with start <= day <= end
	CountActiveCompletions(ctx context.Context, userID string, start, end calendar.DayKey) (int, error)

	// Streaks
	GetStreakState(ctx context.Context, habitID string) (models.StreakState, error)
	// SaveStreakState upserts the state. The stored longest streak never
	// decreases; the persisted row is returned.
	SaveStreakState(ctx context.Context, state models.StreakState) (models.StreakState, error)
	// ListActiveStreakStates returns the streak states of the user's active habits
	ListActiveStreakStates(ctx context.Context, userID string) ([]models.StreakState, error)

	// Achievements
	ListAchievements(ctx context.Context, userID string) ([]models.Achievement, error)
	// InsertAchievement reports whether a new row was written. A row that
	// already exists is not an error.
	InsertAchievement(ctx context.Context, achievement models.Achievement) (bool, error)

	// Goals
	CreateGoal(ctx context.Context, goal models.Goal) error
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	// ListGoals returns the goals of the user's active habits
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	ListActiveGoalsForHabit(ctx context.Context, habitID string) ([]models.Goal, error)
	// UpdateGoalProgress writes progress and status for a goal that is still active
	UpdateGoalProgress(ctx context.Context, goal models.Goal) error

	// Challenges
	CreateChallenge(ctx context.Context, challenge models.Challenge) error
	GetChallenge(ctx context.Context, id string) (models.Challenge, error)
	ListChallenges(ctx context.Context, userID string) ([]models.Challenge, error)
	ListActiveChallengesForHabit(ctx context.Context, habitID string) ([]models.Challenge, error)
	UpdateChallengeProgress(ctx context.Context, challenge models.Challenge) error
}

// Provider is a Store with a lifecycle.
type Provider interface {
	Store

	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations and returns how many ran
	Migrate(logFn func(string)) (int, error)

	// WithTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Utils
	GetConfigPath() string
}
