package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"surq/internal/model"
)

// In-memory fakes for the repository and cache interfaces. Mutations are
// mutex-guarded so the concurrency tests exercise real interleavings.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) SetBanned(ctx context.Context, id string, banned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.IsBanned = banned
	}
	return nil
}

func (r *fakeUserRepo) ApplyAnswerCredit(ctx context.Context, id string, points float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.SurveysAnswered++
		user.Points += points
	}
	return nil
}

func (r *fakeUserRepo) IncrementAnswered(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.SurveysAnswered += delta
	}
	return nil
}

func (r *fakeUserRepo) IncrementCreated(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.SurveysCreated++
	}
	return nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, id string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.Points += float64(points)
	}
	return nil
}

func (r *fakeUserRepo) TouchSurveyExtended(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		stamped := at
		user.LastSurveyExtendedAt = &stamped
	}
	return nil
}

func (r *fakeUserRepo) get(id string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	copied := *user
	return &copied
}

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[string]*model.Survey)}
}

func (r *fakeSurveyRepo) add(survey *model.Survey) *model.Survey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey.ID == "" {
		survey.ID = uuid.New().String()
	}
	r.surveys[survey.ID] = survey
	return survey
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey.ID == "" {
		survey.ID = uuid.New().String()
	}
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = survey.CreatedAt
	r.surveys[survey.ID] = survey
	return survey.ID, nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	copied := *survey
	return &copied, nil
}

func (r *fakeSurveyRepo) ListPublished(ctx context.Context) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var surveys []*model.Survey
	for _, survey := range r.surveys {
		if survey.IsPublished {
			copied := *survey
			surveys = append(surveys, &copied)
		}
	}
	return surveys, nil
}

func (r *fakeSurveyRepo) ListByCreator(ctx context.Context, creatorID string) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var surveys []*model.Survey
	for _, survey := range r.surveys {
		if survey.CreatorID == creatorID {
			copied := *survey
			surveys = append(surveys, &copied)
		}
	}
	return surveys, nil
}

func (r *fakeSurveyRepo) ListExpired(ctx context.Context) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var surveys []*model.Survey
	for _, survey := range r.surveys {
		if survey.ExpiredAt != nil {
			copied := *survey
			surveys = append(surveys, &copied)
		}
	}
	return surveys, nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey.UpdatedAt = time.Now()
	copied := *survey
	r.surveys[survey.ID] = &copied
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

func (r *fakeSurveyRepo) IncrementResponseCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey, ok := r.surveys[id]; ok {
		survey.ResponseCount++
	}
	return nil
}

func (r *fakeSurveyRepo) SetExpiry(ctx context.Context, id string, expiresAt, lastExtendedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey, ok := r.surveys[id]; ok {
		exp, ext := expiresAt, lastExtendedAt
		survey.ExpiresAt = &exp
		survey.LastExtendedAt = &ext
	}
	return nil
}

func (r *fakeSurveyRepo) MarkExpired(ctx context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey, ok := r.surveys[id]; ok {
		stamped := now
		survey.IsPublished = false
		survey.ExpiredAt = &stamped
		survey.UpdatedAt = now
	}
	return nil
}

func (r *fakeSurveyRepo) Restore(ctx context.Context, id string, newExpiry, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey, ok := r.surveys[id]; ok {
		exp, ext := newExpiry, now
		survey.IsPublished = true
		survey.ExpiresAt = &exp
		survey.LastExtendedAt = &ext
		survey.ExpiredAt = nil
		survey.UpdatedAt = now
	}
	return nil
}

func (r *fakeSurveyRepo) ExtendForCreator(ctx context.Context, creatorID string, newExpiry, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	extended := 0
	for _, survey := range r.surveys {
		if survey.CreatorID == creatorID && survey.IsPublished {
			exp, ext := newExpiry, now
			survey.ExpiresAt = &exp
			survey.LastExtendedAt = &ext
			survey.UpdatedAt = now
			extended++
		}
	}
	return extended, nil
}

func (r *fakeSurveyRepo) get(id string) *model.Survey {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey, ok := r.surveys[id]
	if !ok {
		return nil
	}
	copied := *survey
	return &copied
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[string]*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.CreatedAt = time.Now()
	copied := *response
	r.responses[response.ID] = &copied
	return response.ID, nil
}

func (r *fakeResponseRepo) GetBySurveyAndUser(ctx context.Context, surveyID, userID string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, response := range r.responses {
		if response.SurveyID == surveyID && response.UserID == userID {
			copied := *response
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeResponseRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var responses []*model.Response
	for _, response := range r.responses {
		if response.SurveyID == surveyID {
			copied := *response
			responses = append(responses, &copied)
		}
	}
	return responses, nil
}

func (r *fakeResponseRepo) RecordOpen(ctx context.Context, id string, openedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if response, ok := r.responses[id]; ok {
		response.LastOpenedAt = openedAt
		response.OpenCount++
	}
	return nil
}

func (r *fakeResponseRepo) Complete(ctx context.Context, id string, completedAt time.Time, durationMin int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	response, ok := r.responses[id]
	if !ok || response.CompletedAt != nil {
		return false, nil
	}
	stamped := completedAt
	response.CompletedAt = &stamped
	response.EstimatedDurationMin = durationMin
	return true, nil
}

func (r *fakeResponseRepo) FlagReported(ctx context.Context, surveyID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, response := range r.responses {
		if response.SurveyID == surveyID && response.UserID == userID {
			response.IsReported = true
			response.PenaltyApplied = true
		}
	}
	return nil
}

type fakeCouponRepo struct {
	mu          sync.Mutex
	redemptions []*model.CouponRedemption
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{}
}

func (r *fakeCouponRepo) FindRedemption(ctx context.Context, email, code string) (*model.CouponRedemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, redemption := range r.redemptions {
		if redemption.UserEmail == email && redemption.CouponCode == code {
			copied := *redemption
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCouponRepo) Create(ctx context.Context, redemption *model.CouponRedemption) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if redemption.ID == "" {
		redemption.ID = uuid.New().String()
	}
	redemption.CreatedAt = time.Now()
	copied := *redemption
	r.redemptions = append(r.redemptions, &copied)
	return redemption.ID, nil
}

func (r *fakeCouponRepo) ListByEmail(ctx context.Context, email string) ([]*model.CouponRedemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var redemptions []*model.CouponRedemption
	for _, redemption := range r.redemptions {
		if redemption.UserEmail == email {
			copied := *redemption
			redemptions = append(redemptions, &copied)
		}
	}
	return redemptions, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.Report)}
}

func (r *fakeReportRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	copied := *report
	r.reports[report.ID] = &copied
	return report.ID, nil
}

func (r *fakeReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

func (r *fakeReportRepo) List(ctx context.Context) ([]*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := make([]*model.Report, 0, len(r.reports))
	for _, report := range r.reports {
		copied := *report
		reports = append(reports, &copied)
	}
	return reports, nil
}

func (r *fakeReportRepo) Update(ctx context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.UpdatedAt = time.Now()
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *model.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return notification.ID, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []*model.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			copied := *notification
			notifications = append(notifications, &copied)
		}
	}
	return notifications, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

// fakeTxRunner serializes transaction bodies with a mutex, which is exactly
// the isolation the coupon flow relies on.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type fakeProfileCache struct {
	mu            sync.Mutex
	profiles      map[string]*model.Profile
	invalidations int
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{profiles: make(map[string]*model.Profile)}
}

func (c *fakeProfileCache) Get(ctx context.Context, userID string) (*model.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile, ok := c.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (c *fakeProfileCache) Set(ctx context.Context, userID string, profile *model.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *profile
	c.profiles[userID] = &copied
	return nil
}

func (c *fakeProfileCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, userID)
	c.invalidations++
	return nil
}
