package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrNotStarted       = errors.New("response not started")
	ErrAlreadyCompleted = errors.New("response already completed")
	ErrAlreadyRedeemed  = errors.New("coupon already redeemed")
	ErrInvalidCoupon    = errors.New("invalid coupon code")
	ErrInvalidStatus    = errors.New("invalid report status")
	ErrReportFinalized  = errors.New("report already finalized")
	ErrNotOwner         = errors.New("not the owner of this resource")
	ErrUserBanned       = errors.New("account is banned")
	ErrEmailTaken       = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrInvalidToken     = errors.New("invalid or expired token")
)

// InsufficientCreditsError rejects a publish attempt and tells the user how
// many more answers buy the next credit.
type InsufficientCreditsError struct {
	AnswersNeeded int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient publish credits: answer %d more surveys to publish", e.AnswersNeeded)
}
