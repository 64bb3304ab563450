package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/internal/infrastructure/database/repository"
	"elderguard/pkg/logger"
)

// UserStore persists profiles keyed by email
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EnsureUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, p models.ProfileUpdate, contacts []models.EmergencyContact) (*models.User, error)
}

// ProfileService manages user profiles and emergency contacts
type ProfileService struct {
	store  UserStore
	logger *logger.Logger
	now    func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(store UserStore, log *logger.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: log.WithComponent("profile"),
		now:    time.Now,
	}
}

// NormalizeEmail is the canonical form used as the profile key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn creates the profile on first sign-in and returns it
func (s *ProfileService) SignIn(ctx context.Context, id models.Identity) (*models.User, error) {
	email := NormalizeEmail(id.Email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	u, err := s.store.EnsureUser(ctx, &models.User{
		Email:    email,
		Name:     id.Name,
		Image:    id.Image,
		GoogleID: id.GoogleID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", u.ID.Hex()).Bool("profile_complete", u.ProfileComplete).Msg("session established")
	return u, nil
}

// Get returns the profile for email
func (s *ProfileService) Get(ctx context.Context, email string) (*models.User, error) {
	u, err := s.store.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Update replaces the editable fields and marks the profile complete
func (s *ProfileService) Update(ctx context.Context, email string, p models.ProfileUpdate) (*models.User, error) {
	contacts := p.Contacts(s.now().UTC())

	u, err := s.store.UpdateProfile(ctx, NormalizeEmail(email), p, contacts)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.Hex()).Int("contacts", len(contacts)).Msg("profile updated")
	return u, nil
}
