package model

import "time"

// User is a registered account. The two counters back the publish-credit
// ledger: every completed response increments SurveysAnswered, every
// published survey increments SurveysCreated, and 4 answers buy 1 publish.
// Both are mutated only through atomic storage-side increments.
type User struct {
	ID                   string     `json:"id" bson:"_id,omitempty"`
	Name                 string     `json:"name" bson:"name"`
	Email                string     `json:"email" bson:"email"`
	PasswordHash         string     `json:"-" bson:"password_hash"`
	Points               float64    `json:"points" bson:"points"`
	SurveysAnswered      int        `json:"surveysAnswered" bson:"surveys_answered"`
	SurveysCreated       int        `json:"surveysCreated" bson:"surveys_created"`
	IsBanned             bool       `json:"isBanned" bson:"is_banned"`
	LastSurveyExtendedAt *time.Time `json:"lastSurveyExtendedAt,omitempty" bson:"last_survey_extended_at,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Profile is the view of a user returned by GET /users/me, with the derived
// credit values computed from the stored counters. AvailableCredits is never
// persisted.
type Profile struct {
	User
	AvailableCredits       int `json:"availableCredits"`
	AnswersUntilNextCredit int `json:"answersUntilNextCredit"`
}
