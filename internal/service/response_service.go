package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"surq/internal/cache"
	"surq/internal/model"
	"surq/internal/repository"
)

// ResponseService records who answered which survey. Lifecycle: Start
// creates or re-opens a tracking record (idempotent), Complete closes it
// exactly once and applies the counter increments, AccessError just notifies
// the survey's creator.
type ResponseService struct {
	responseRepo repository.ResponseRepo
	surveyRepo   repository.SurveyRepo
	userRepo     repository.UserRepo
	notifSvc     *NotificationService
	profileCache cache.ProfileCache
}

// NewResponseService creates a new response service.
func NewResponseService(
	responseRepo repository.ResponseRepo,
	surveyRepo repository.SurveyRepo,
	userRepo repository.UserRepo,
	notifSvc *NotificationService,
	profileCache cache.ProfileCache,
) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		surveyRepo:   surveyRepo,
		userRepo:     userRepo,
		notifSvc:     notifSvc,
		profileCache: profileCache,
	}
}

// Start records that the user opened the survey's form. A first start
// creates the tracking record; any later start bumps open_count and
// refreshes last_opened_at. Repeated starts are always accepted.
func (s *ResponseService) Start(ctx context.Context, surveyID string, ident Identity, openedAt time.Time) error {
	_, user, err := s.loadSurveyAndUser(ctx, surveyID, ident)
	if err != nil {
		return err
	}

	existing, err := s.responseRepo.GetBySurveyAndUser(ctx, surveyID, user.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.responseRepo.RecordOpen(ctx, existing.ID, openedAt)
	}

	_, err = s.responseRepo.Create(ctx, &model.Response{
		SurveyID:     surveyID,
		UserID:       user.ID,
		UserName:     user.Name,
		UserEmail:    user.Email,
		OpenCount:    1,
		LastOpenedAt: openedAt,
	})
	return err
}

// Complete closes the tracking record and applies the counter increments.
//
// The three mutations (tracking record, user counter, survey counter) are
// independent single-document atomic writes, not one transaction. A crash
// between the tracking write and the counter increments loses those
// increments for good: the AlreadyCompleted guard rejects any replay. That
// is why a failure past the tracking write is logged loudly and must not be
// blindly retried by the caller.
func (s *ResponseService) Complete(ctx context.Context, surveyID string, ident Identity, completedAt time.Time) (int, error) {
	survey, user, err := s.loadSurveyAndUser(ctx, surveyID, ident)
	if err != nil {
		return 0, err
	}

	tracking, err := s.responseRepo.GetBySurveyAndUser(ctx, surveyID, user.ID)
	if err != nil {
		return 0, err
	}
	if tracking == nil {
		return 0, ErrNotStarted
	}
	if tracking.CompletedAt != nil {
		return 0, ErrAlreadyCompleted
	}

	durationMin := int(math.Round(completedAt.Sub(tracking.LastOpenedAt).Minutes()))
	if durationMin < 0 {
		durationMin = 0
	}

	won, err := s.responseRepo.Complete(ctx, tracking.ID, completedAt, durationMin)
	if err != nil {
		return 0, err
	}
	if !won {
		return 0, ErrAlreadyCompleted
	}

	if err := s.userRepo.ApplyAnswerCredit(ctx, user.ID, survey.RespondentPoints); err != nil {
		log.Error().Err(err).
			Str("survey_id", surveyID).
			Str("user_id", user.ID).
			Msg("tracking record completed but surveys_answered increment failed; increment is lost, do not retry")
		return 0, err
	}
	if err := s.surveyRepo.IncrementResponseCount(ctx, surveyID); err != nil {
		log.Error().Err(err).
			Str("survey_id", surveyID).
			Msg("response_count increment failed after counters were partially applied; do not retry")
		return 0, err
	}
	s.invalidateProfile(ctx, user.ID)

	// Best-effort reward: answering keeps the responder's own surveys alive.
	s.extendOwnedSurveys(ctx, user.ID, completedAt)

	return durationMin, nil
}

// AccessError notifies the survey's creator that a respondent could not open
// the form. No counters move; repeated calls produce repeated notifications.
func (s *ResponseService) AccessError(ctx context.Context, surveyID string, ident Identity) error {
	survey, _, err := s.loadSurveyAndUser(ctx, surveyID, ident)
	if err != nil {
		return err
	}

	return s.notifSvc.Create(ctx, &model.Notification{
		UserID:      survey.CreatorID,
		Type:        model.NotificationSystem,
		Title:       "Survey access problem reported",
		Message:     fmt.Sprintf("A respondent reported that your survey %q cannot be opened. Check the form's sharing settings.", survey.Title),
		SurveyID:    survey.ID,
		SurveyTitle: survey.Title,
	})
}

// ListForOwner returns all tracking records for a survey the caller owns.
func (s *ResponseService) ListForOwner(ctx context.Context, surveyID string, ident Identity) ([]*model.Response, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.CreatorID != ident.UserID {
		return nil, ErrNotOwner
	}
	return s.responseRepo.ListBySurvey(ctx, surveyID)
}

func (s *ResponseService) loadSurveyAndUser(ctx context.Context, surveyID string, ident Identity) (*model.Survey, *model.User, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	if survey == nil {
		return nil, nil, ErrSurveyNotFound
	}

	user, err := s.userRepo.GetByID(ctx, ident.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	if user.IsBanned {
		return nil, nil, ErrUserBanned
	}
	return survey, user, nil
}

// extendOwnedSurveys pushes every published survey owned by the responder
// one month out and stamps the user. Failures here never roll back the
// primary counter increments.
func (s *ResponseService) extendOwnedSurveys(ctx context.Context, userID string, now time.Time) {
	newExpiry := now.AddDate(0, 1, 0)
	extended, err := s.surveyRepo.ExtendForCreator(ctx, userID, newExpiry, now)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("expiry extension failed")
		return
	}
	if extended == 0 {
		return
	}
	if err := s.userRepo.TouchSurveyExtended(ctx, userID, now); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("last_survey_extended_at update failed")
	}
	log.Debug().Str("user_id", userID).Int("surveys", extended).Time("new_expiry", newExpiry).Msg("extended owned surveys")
}

func (s *ResponseService) invalidateProfile(ctx context.Context, userID string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
}
