package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"surq/internal/cache"
	"surq/internal/model"
	"surq/internal/repository"
)

// UserService serves user profiles and admin user management. Profiles go
// through the advisory cache; the derived credit values are recomputed from
// the stored counters whenever the cache misses.
type UserService struct {
	userRepo     repository.UserRepo
	profileCache cache.ProfileCache
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepo, profileCache cache.ProfileCache) *UserService {
	return &UserService{userRepo: userRepo, profileCache: profileCache}
}

// Profile returns the user's profile with derived publish-credit values.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	if s.profileCache != nil {
		cached, err := s.profileCache.Get(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := &model.Profile{
		User:                   *user,
		AvailableCredits:       AvailableCredits(user.SurveysAnswered, user.SurveysCreated),
		AnswersUntilNextCredit: AnswersUntilNextCredit(user.SurveysAnswered),
	}
	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, userID, profile); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("profile cache write failed")
		}
	}
	return profile, nil
}

// List returns all users (admin).
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// SetBanned bans or unbans a user (admin).
func (s *UserService) SetBanned(ctx context.Context, userID string, banned bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.SetBanned(ctx, userID, banned); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, userID string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
}
