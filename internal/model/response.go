package model

import "time"

// Response tracks one user's answer lifecycle for one survey: created on the
// first "start", completed at most once. At most one record exists per
// (survey_id, user_id) pair; a second completion attempt is rejected, never
// merged. CompletedAt doubles as the replay guard for the counter increments
// that follow it.
type Response struct {
	ID                   string     `json:"id" bson:"_id,omitempty"`
	SurveyID             string     `json:"surveyId" bson:"survey_id"`
	UserID               string     `json:"userId" bson:"user_id"`
	UserName             string     `json:"userName" bson:"user_name"`
	UserEmail            string     `json:"userEmail" bson:"user_email"`
	OpenCount            int        `json:"openCount" bson:"open_count"`
	LastOpenedAt         time.Time  `json:"lastOpenedAt" bson:"last_opened_at"`
	CompletedAt          *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	EstimatedDurationMin int        `json:"estimatedDurationMinutes" bson:"estimated_duration_minutes"`
	IsReported           bool       `json:"isReported" bson:"is_reported"`
	PenaltyApplied       bool       `json:"penaltyApplied" bson:"penalty_applied"`
	CreatedAt            time.Time  `json:"createdAt" bson:"created_at"`
}

// TrackAction is the client-reported response lifecycle event.
type TrackAction string

const (
	TrackStart       TrackAction = "start"
	TrackComplete    TrackAction = "complete"
	TrackAccessError TrackAction = "access_error"
)
