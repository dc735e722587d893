// Package achievements evaluates the rule table against a user's stats and
// unlocks each achievement at most once.
package achievements

import (
	"context"
	"math"
	"time"

	"github.com/julianstephens/daystreak/internal/calendar"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/stats"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Engine evaluates rules for users.
type Engine struct {
	store storage.Store
	stats *stats.Calculator
	rules []Rule
	now   func() time.Time
}

// New returns an engine over store. A nil rules slice selects the built-in
// table; now defaults to time.Now.
func New(store storage.Store, rules []Rule, now func() time.Time) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store: store,
		stats: stats.New(store),
		rules: rules,
		now:   now,
	}
}

// Rules returns the engine's rule table.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Evaluate unlocks every rule userID newly satisfies as of now and returns
// the achievements written by this call. Rules already unlocked, including
// ones a concurrent call won, are not returned.
func (e *Engine) Evaluate(ctx context.Context, userID string, now calendar.DayKey) ([]models.Achievement, error) {
	s, err := e.stats.ComputeUserStats(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, userID, s)
}

func (e *Engine) evaluate(ctx context.Context, userID string, s stats.Stats) ([]models.Achievement, error) {
	existing, err := e.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(existing))
	for _, a := range existing {
		unlocked[a.AchievementID] = true
	}

	fresh := []models.Achievement{}
	for _, r := range e.rules {
		if unlocked[r.ID] || !r.Satisfied(s) {
			continue
		}

		a := models.Achievement{
			UserID:        userID,
			AchievementID: r.ID,
			Title:         r.Title,
			Description:   r.Description,
			Icon:          r.Icon,
			Category:      r.Category,
			Points:        r.Points,
			UnlockedAt:    e.now().UTC(),
		}
		inserted, err := e.store.InsertAchievement(ctx, a)
		if err != nil {
			return nil, err
		}
		if !inserted {
			logger.Debug("Achievement unlocked concurrently", "user", userID, "achievement", r.ID)
			continue
		}

		logger.Info("Achievement unlocked", "user", userID, "achievement", r.ID, "points", r.Points)
		fresh = append(fresh, a)
	}
	return fresh, nil
}

// Status is one rule as seen by a user.
type Status struct {
	Rule
	Unlocked        bool
	UnlockedAt      *time.Time
	MeetsCondition  bool
	ProgressPercent int
}

// Overview summarizes a user's achievements against the rule table.
type Overview struct {
	Achievements   []Status
	Stats          stats.Stats
	TotalPoints    int
	UnlockedCount  int
	TotalCount     int
	CompletionRate int
}

// Overview reports progress on every rule. It reads only; nothing is unlocked.
func (e *Engine) Overview(ctx context.Context, userID string, now calendar.DayKey) (Overview, error) {
	s, err := e.stats.ComputeUserStats(ctx, userID, now)
	if err != nil {
		return Overview{}, err
	}

	existing, err := e.store.ListAchievements(ctx, userID)
	if err != nil {
		return Overview{}, err
	}
	byID := make(map[string]models.Achievement, len(existing))
	for _, a := range existing {
		byID[a.AchievementID] = a
	}

	ov := Overview{
		Stats:      s,
		TotalCount: len(e.rules),
	}
	for _, r := range e.rules {
		st := Status{
			Rule:            r,
			MeetsCondition:  r.Satisfied(s),
			ProgressPercent: r.Progress(s),
		}
		if a, ok := byID[r.ID]; ok {
			unlockedAt := a.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &unlockedAt
			st.Points = a.Points
			st.ProgressPercent = 100
		}
		ov.Achievements = append(ov.Achievements, st)
	}

	// Points come from stored rows so that retired rules still count
	for _, a := range existing {
		ov.TotalPoints += a.Points
	}
	ov.UnlockedCount = len(existing)
	if ov.TotalCount > 0 {
		ov.CompletionRate = int(math.Round(100 * float64(ov.UnlockedCount) / float64(ov.TotalCount)))
	}
	return ov, nil
}
