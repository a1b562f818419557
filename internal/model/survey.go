package model

import "time"

type SurveyType string

const (
	SurveyTypeNative     SurveyType = "native"
	SurveyTypeGoogleForm SurveyType = "google_form"
)

type QuestionType string

const (
	QuestionTypeYesNo          QuestionType = "yes-no"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeText           QuestionType = "text"
)

// Question is a single question in a native survey.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Type     QuestionType `json:"type" bson:"type"`
	Question string       `json:"question" bson:"question"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"`
	Required bool         `json:"required" bson:"required"`
}

// Survey is a published or draft questionnaire. ResponseCount is mutated
// only via atomic storage-side increments, once per accepted response.
// ExpiresAt is nil on legacy records until the sweeper backfills it;
// ExpiredAt is stamped when the sweeper unpublishes the survey and cleared
// again when an admin restores it.
type Survey struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	Type             SurveyType `json:"type" bson:"type"`
	CreatorID        string     `json:"creatorId" bson:"creator_id"`
	Title            string     `json:"title" bson:"title"`
	Description      string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions        []Question `json:"questions,omitempty" bson:"questions,omitempty"`
	GoogleFormURL    string     `json:"googleFormUrl,omitempty" bson:"google_form_url,omitempty"`
	EmbeddedURL      string     `json:"embeddedUrl,omitempty" bson:"embedded_url,omitempty"`
	EstimatedTime    int        `json:"estimatedTime,omitempty" bson:"estimated_time,omitempty"`
	Category         string     `json:"category,omitempty" bson:"category,omitempty"`
	TargetAudience   string     `json:"targetAudience,omitempty" bson:"target_audience,omitempty"`
	RespondentPoints float64    `json:"respondentPoints" bson:"respondent_points"`
	CreatorPoints    float64    `json:"creatorPoints" bson:"creator_points"`
	IsPublished      bool       `json:"isPublished" bson:"is_published"`
	ResponseCount    int        `json:"responseCount" bson:"response_count"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty" bson:"expires_at,omitempty"`
	ExpiredAt        *time.Time `json:"expiredAt,omitempty" bson:"expired_at,omitempty"`
	LastExtendedAt   *time.Time `json:"lastExtendedAt,omitempty" bson:"last_extended_at,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updated_at"`
}
