package model

import "time"

type ReportStatus string

const (
	ReportPending       ReportStatus = "pending"
	ReportInvestigating ReportStatus = "investigating"
	ReportResolved      ReportStatus = "resolved"
	ReportDismissed     ReportStatus = "dismissed"
)

// Terminal reports that a status admits no further transitions.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

// Report is a moderation complaint against a user's response to a survey.
// Resolving with apply_penalty triggers the compensating decrement of the
// reported user's surveys_answered counter.
type Report struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	SurveyID       string       `json:"surveyId" bson:"survey_id"`
	SurveyTitle    string       `json:"surveyTitle" bson:"survey_title"`
	ReporterID     string       `json:"reporterId" bson:"reporter_id"`
	ReportedUserID string       `json:"reportedUserId" bson:"reported_user_id"`
	Reason         string       `json:"reason" bson:"reason"`
	Status         ReportStatus `json:"status" bson:"status"`
	AdminNotes     string       `json:"adminNotes,omitempty" bson:"admin_notes,omitempty"`
	PenaltyApplied bool         `json:"penaltyApplied" bson:"penalty_applied"`
	CreatedAt      time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updated_at"`
}
