// Package habits manages the lifecycle of a user's habits. Habits are never
// deleted; deactivation hides them from every aggregate and reactivation
// brings their history back.
package habits

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/validation"
)

var categories = []models.HabitCategory{
	models.CategoryHealth,
	models.CategoryProductivity,
	models.CategoryLearning,
	models.CategoryMindfulness,
	models.CategoryOther,
}

// ParseCategory matches s case-insensitively against the known categories.
// An empty string selects Other.
func ParseCategory(s string) (models.HabitCategory, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.CategoryOther, nil
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", apperrors.InvalidInput("unknown category %q", s)
}

// CreateRequest describes a new habit.
type CreateRequest struct {
	UserID      string `validate:"notblank"`
	Name        string `validate:"notblank,max=100"`
	Description string `validate:"max=500"`
	Category    string
}

// Service creates and toggles habits for their owners.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// New returns a service over store. now defaults to time.Now.
func New(store storage.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Create stores a new active habit. A name that matches another habit of the
// same user, ignoring case and surrounding space, is a conflict.
func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Habit, error) {
	if err := validation.Struct(req); err != nil {
		return models.Habit{}, err
	}
	category, err := ParseCategory(req.Category)
	if err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Active:      true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateHabit(ctx, h); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit created", "habit", h.ID, "user", h.UserID, "name", h.Name)
	return h, nil
}

// Get returns habitID if it belongs to userID. Habits of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, habitID string) (models.Habit, error) {
	h, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.UserID != userID {
		return models.Habit{}, apperrors.NotFound("habit %s not found", habitID)
	}
	return h, nil
}

// Resolve finds a habit of userID by id or by name.
func (s *Service) Resolve(ctx context.Context, userID, ref string) (models.Habit, error) {
	h, err := s.Get(ctx, userID, ref)
	if err == nil {
		return h, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return models.Habit{}, err
	}

	all, err := s.store.ListHabits(ctx, userID, true)
	if err != nil {
		return models.Habit{}, err
	}
	key := models.HabitNameKey(ref)
	for _, h := range all {
		if models.HabitNameKey(h.Name) == key {
			return h, nil
		}
	}
	return models.Habit{}, apperrors.NotFound("habit %q not found", ref)
}

// List returns the habits of userID, including deactivated ones when asked.
func (s *Service) List(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error) {
	return s.store.ListHabits(ctx, userID, includeInactive)
}

// Deactivate excludes habitID from every aggregate. Its logs are kept.
func (s *Service) Deactivate(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.setActive(ctx, userID, habitID, false)
}

// Activate brings a deactivated habit and its history back.
func (s *Service) Activate(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.setActive(ctx, userID, habitID, true)
}

func (s *Service) setActive(ctx context.Context, userID, habitID string, active bool) (models.Habit, error) {
	h, err := s.Get(ctx, userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.Active == active {
		return h, nil
	}

	if err := s.store.SetHabitActive(ctx, habitID, active, s.now().UTC()); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit active flag changed", "habit", habitID, "active", active)
	return s.store.GetHabit(ctx, habitID)
}
