package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"surq/internal/cache"
	"surq/internal/model"
	"surq/internal/repository"
)

// SurveyService handles survey CRUD and the publish-credit consumption rule:
// making a survey publicly visible spends one credit, derived from the
// caller's stored counters at the moment of publishing. Client-supplied or
// cached counter values are never trusted for the check.
type SurveyService struct {
	surveyRepo   repository.SurveyRepo
	userRepo     repository.UserRepo
	profileCache cache.ProfileCache
	isAdmin      func(email string) bool
}

// NewSurveyService creates a new survey service. isAdmin resolves allowlist
// membership; allowlisted accounts publish without spending credits.
func NewSurveyService(surveyRepo repository.SurveyRepo, userRepo repository.UserRepo, profileCache cache.ProfileCache, isAdmin func(email string) bool) *SurveyService {
	return &SurveyService{
		surveyRepo:   surveyRepo,
		userRepo:     userRepo,
		profileCache: profileCache,
		isAdmin:      isAdmin,
	}
}

// Create stores a new survey for the caller. Publishing at create time runs
// the credit check and consumes a credit in the same request.
func (s *SurveyService) Create(ctx context.Context, ident Identity, survey *model.Survey) (string, error) {
	user, err := s.userRepo.GetByID(ctx, ident.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if user.IsBanned {
		return "", ErrUserBanned
	}

	survey.CreatorID = user.ID
	survey.ResponseCount = 0
	survey.ExpiredAt = nil
	if survey.Type == "" {
		survey.Type = model.SurveyTypeNative
	}
	if survey.Type == model.SurveyTypeNative {
		survey.RespondentPoints, survey.CreatorPoints = ComputeSurveyPoints(survey.Questions)
	}

	if survey.IsPublished {
		if err := s.consumePublishCredit(ctx, user); err != nil {
			return "", err
		}
		now := time.Now()
		expiry := now.AddDate(0, 1, 0)
		survey.ExpiresAt = &expiry
		survey.LastExtendedAt = &now
	}

	return s.surveyRepo.Create(ctx, survey)
}

// Get returns one survey by id.
func (s *SurveyService) Get(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// ListPublished returns all currently published surveys.
func (s *SurveyService) ListPublished(ctx context.Context) ([]*model.Survey, error) {
	return s.surveyRepo.ListPublished(ctx)
}

// ListMine returns the caller's own surveys, published or not.
func (s *SurveyService) ListMine(ctx context.Context, ident Identity) ([]*model.Survey, error) {
	return s.surveyRepo.ListByCreator(ctx, ident.UserID)
}

// Update replaces an owned survey's editable fields. Flipping a draft to
// published consumes a credit exactly as create-time publishing does.
func (s *SurveyService) Update(ctx context.Context, ident Identity, id string, updated *model.Survey) (*model.Survey, error) {
	existing, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSurveyNotFound
	}
	if existing.CreatorID != ident.UserID {
		return nil, ErrNotOwner
	}

	if !existing.IsPublished && updated.IsPublished {
		user, err := s.userRepo.GetByID(ctx, ident.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if err := s.consumePublishCredit(ctx, user); err != nil {
			return nil, err
		}
		now := time.Now()
		expiry := now.AddDate(0, 1, 0)
		existing.ExpiresAt = &expiry
		existing.LastExtendedAt = &now
		existing.ExpiredAt = nil
	}

	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Questions = updated.Questions
	existing.GoogleFormURL = updated.GoogleFormURL
	existing.EmbeddedURL = updated.EmbeddedURL
	existing.EstimatedTime = updated.EstimatedTime
	existing.Category = updated.Category
	existing.TargetAudience = updated.TargetAudience
	existing.IsPublished = existing.IsPublished || updated.IsPublished
	if existing.Type == model.SurveyTypeNative {
		existing.RespondentPoints, existing.CreatorPoints = ComputeSurveyPoints(existing.Questions)
	}

	if err := s.surveyRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes an owned survey.
func (s *SurveyService) Delete(ctx context.Context, ident Identity, id string) error {
	existing, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSurveyNotFound
	}
	if existing.CreatorID != ident.UserID {
		return ErrNotOwner
	}
	return s.surveyRepo.Delete(ctx, id)
}

// consumePublishCredit re-reads nothing: the caller just fetched the user,
// and the check is read-only validation. The increment backing it is an
// atomic storage-side $inc, so concurrent publishes cannot mint credits by
// racing the read.
func (s *SurveyService) consumePublishCredit(ctx context.Context, user *model.User) error {
	if s.isAdmin != nil && s.isAdmin(user.Email) {
		return nil
	}

	if AvailableCredits(user.SurveysAnswered, user.SurveysCreated) <= 0 {
		return &InsufficientCreditsError{AnswersNeeded: AnswersUntilNextCredit(user.SurveysAnswered)}
	}
	if err := s.userRepo.IncrementCreated(ctx, user.ID); err != nil {
		return err
	}
	if s.profileCache != nil {
		if err := s.profileCache.Invalidate(ctx, user.ID); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("profile cache invalidation failed")
		}
	}
	return nil
}
