package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"surq/internal/cache"
	"surq/internal/model"
	"surq/internal/repository"
)

// ReportService handles moderation reports. Resolving a report with
// apply_penalty performs the compensating decrement of the reported user's
// surveys_answered counter and flags the offending response record.
type ReportService struct {
	reportRepo   repository.ReportRepo
	responseRepo repository.ResponseRepo
	userRepo     repository.UserRepo
	surveyRepo   repository.SurveyRepo
	notifSvc     *NotificationService
	profileCache cache.ProfileCache
}

// NewReportService creates a new report service.
func NewReportService(
	reportRepo repository.ReportRepo,
	responseRepo repository.ResponseRepo,
	userRepo repository.UserRepo,
	surveyRepo repository.SurveyRepo,
	notifSvc *NotificationService,
	profileCache cache.ProfileCache,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
		surveyRepo:   surveyRepo,
		notifSvc:     notifSvc,
		profileCache: profileCache,
	}
}

// Create files a report against a user's response to a survey.
func (s *ReportService) Create(ctx context.Context, ident Identity, surveyID, reportedUserID, reason string) (string, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return "", err
	}
	if survey == nil {
		return "", ErrSurveyNotFound
	}

	return s.reportRepo.Create(ctx, &model.Report{
		SurveyID:       surveyID,
		SurveyTitle:    survey.Title,
		ReporterID:     ident.UserID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		Status:         model.ReportPending,
	})
}

// List returns all reports, newest first (admin).
func (s *ReportService) List(ctx context.Context) ([]*model.Report, error) {
	return s.reportRepo.List(ctx)
}

// Resolve moves a report through its lifecycle. resolved and dismissed are
// terminal. With applyPenalty and a resolved status, the reported user's
// surveys_answered is decremented by one and the response record is flagged
// instead of deleted.
func (s *ReportService) Resolve(ctx context.Context, reportID string, status model.ReportStatus, adminNotes string, applyPenalty bool) (*model.Report, error) {
	switch status {
	case model.ReportPending, model.ReportInvestigating, model.ReportResolved, model.ReportDismissed:
	default:
		return nil, ErrInvalidStatus
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	if report.Status.Terminal() {
		return nil, ErrReportFinalized
	}

	report.Status = status
	if adminNotes != "" {
		report.AdminNotes = adminNotes
	}

	if applyPenalty && status == model.ReportResolved {
		if err := s.applyPenalty(ctx, report); err != nil {
			return nil, err
		}
		report.PenaltyApplied = true
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) applyPenalty(ctx context.Context, report *model.Report) error {
	if err := s.userRepo.IncrementAnswered(ctx, report.ReportedUserID, -1); err != nil {
		return err
	}
	if err := s.responseRepo.FlagReported(ctx, report.SurveyID, report.ReportedUserID); err != nil {
		return err
	}
	if s.profileCache != nil {
		if err := s.profileCache.Invalidate(ctx, report.ReportedUserID); err != nil {
			log.Warn().Err(err).Str("user_id", report.ReportedUserID).Msg("profile cache invalidation failed")
		}
	}

	// Best effort; the penalty itself already landed.
	if err := s.notifSvc.Create(ctx, &model.Notification{
		UserID:      report.ReportedUserID,
		Type:        model.NotificationModeration,
		Title:       "Moderation penalty applied",
		Message:     fmt.Sprintf("A report about your response to %q was resolved and a penalty was applied to your answer count.", report.SurveyTitle),
		SurveyID:    report.SurveyID,
		SurveyTitle: report.SurveyTitle,
	}); err != nil {
		log.Warn().Err(err).Str("user_id", report.ReportedUserID).Msg("penalty notification failed")
	}
	return nil
}
