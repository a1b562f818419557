package model

import "time"

type NotificationType string

const (
	NotificationSystem     NotificationType = "system"
	NotificationModeration NotificationType = "moderation"
)

// Notification is an in-app message addressed to one user. The consistency
// core only creates these records; delivery beyond the websocket hub is
// handled elsewhere.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	UserID      string           `json:"userId" bson:"user_id"`
	Type        NotificationType `json:"type" bson:"type"`
	Title       string           `json:"title" bson:"title"`
	Message     string           `json:"message" bson:"message"`
	SurveyID    string           `json:"surveyId,omitempty" bson:"survey_id,omitempty"`
	SurveyTitle string           `json:"surveyTitle,omitempty" bson:"survey_title,omitempty"`
	IsRead      bool             `json:"isRead" bson:"is_read"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
}
