package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"surq/internal/repository"
)

// SweeperService unpublishes surveys past their expiry date. Each survey is
// written independently, so a crash mid-sweep is harmless: the sweep is
// idempotent and safe to re-run, including concurrently with itself from
// overlapping cron triggers.
type SweeperService struct {
	surveyRepo repository.SurveyRepo
}

// NewSweeperService creates a new sweeper service.
func NewSweeperService(surveyRepo repository.SurveyRepo) *SweeperService {
	return &SweeperService{surveyRepo: surveyRepo}
}

// Sweep evaluates every published survey against now. A survey whose
// expires_at has passed (inclusive: expires_at == now expires) is
// unpublished and stamped with expired_at; expires_at itself is left as the
// audit trail. Legacy surveys with no expires_at get one backfilled as
// created_at + 1 month and are not re-evaluated until the next sweep, even
// if the backfilled date is already past.
func (s *SweeperService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	surveys, err := s.surveyRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Checked: len(surveys), ExpiredIDs: []string{}}
	for _, survey := range surveys {
		if survey.ExpiresAt == nil {
			expiry := survey.CreatedAt.AddDate(0, 1, 0)
			if err := s.surveyRepo.SetExpiry(ctx, survey.ID, expiry, survey.CreatedAt); err != nil {
				log.Error().Err(err).Str("survey_id", survey.ID).Msg("expiry backfill failed")
				continue
			}
			result.Backfilled++
			log.Info().Str("survey_id", survey.ID).Time("expires_at", expiry).Msg("backfilled default expiry")
			continue
		}

		if survey.ExpiresAt.After(now) {
			continue
		}
		if err := s.surveyRepo.MarkExpired(ctx, survey.ID, now); err != nil {
			log.Error().Err(err).Str("survey_id", survey.ID).Msg("expiry write failed")
			continue
		}
		result.ExpiredCount++
		result.ExpiredIDs = append(result.ExpiredIDs, survey.ID)
		log.Info().Str("survey_id", survey.ID).Str("title", survey.Title).Msg("survey expired")
	}
	return result, nil
}

// RestoreExpired republishes every expired survey with a fresh expiry one
// month from now and clears its expired_at stamp. Administrative bulk undo;
// per-document writes, idempotent like the sweep.
func (s *SweeperService) RestoreExpired(ctx context.Context, now time.Time) (*RestoreResult, error) {
	surveys, err := s.surveyRepo.ListExpired(ctx)
	if err != nil {
		return nil, err
	}

	newExpiry := now.AddDate(0, 1, 0)
	result := &RestoreResult{RestoredIDs: []string{}}
	for _, survey := range surveys {
		if err := s.surveyRepo.Restore(ctx, survey.ID, newExpiry, now); err != nil {
			log.Error().Err(err).Str("survey_id", survey.ID).Msg("restore failed")
			continue
		}
		result.Restored++
		result.RestoredIDs = append(result.RestoredIDs, survey.ID)
	}
	log.Info().Int("restored", result.Restored).Time("new_expiry", newExpiry).Msg("restored expired surveys")
	return result, nil
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("expiry sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expiry sweeper stopped")
			return
		case now := <-ticker.C:
			result, err := s.Sweep(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("sweep failed")
				continue
			}
			log.Info().
				Int("checked", result.Checked).
				Int("expired", result.ExpiredCount).
				Int("backfilled", result.Backfilled).
				Msg("sweep finished")
		}
	}
}
