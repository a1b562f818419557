package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surq/internal/model"
)

type responseFixture struct {
	svc       *ResponseService
	users     *fakeUserRepo
	surveys   *fakeSurveyRepo
	responses *fakeResponseRepo
	notifs    *fakeNotificationRepo
	cache     *fakeProfileCache
	creator   *model.User
	responder *model.User
	survey    *model.Survey
}

func newResponseFixture() *responseFixture {
	users := newFakeUserRepo()
	surveys := newFakeSurveyRepo()
	responses := newFakeResponseRepo()
	notifs := newFakeNotificationRepo()
	cache := newFakeProfileCache()

	creator := users.add(&model.User{Email: "creator@example.com"})
	responder := users.add(&model.User{Email: "responder@example.com"})
	survey := surveys.add(&model.Survey{
		Title:            "Fixture survey",
		CreatorID:        creator.ID,
		IsPublished:      true,
		RespondentPoints: 2.5,
	})

	return &responseFixture{
		svc:       NewResponseService(responses, surveys, users, NewNotificationService(notifs), cache),
		users:     users,
		surveys:   surveys,
		responses: responses,
		notifs:    notifs,
		cache:     cache,
		creator:   creator,
		responder: responder,
		survey:    survey,
	}
}

func (f *responseFixture) responderIdentity() Identity {
	return Identity{UserID: f.responder.ID, Email: f.responder.Email}
}

func TestStartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()
	opened := time.Now()

	require.NoError(t, f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), opened))

	tracking, err := f.responses.GetBySurveyAndUser(ctx, f.survey.ID, f.responder.ID)
	require.NoError(t, err)
	require.NotNil(t, tracking)
	assert.Equal(t, 1, tracking.OpenCount)

	// A second start bumps open_count instead of creating a second record.
	reopened := opened.Add(time.Minute)
	require.NoError(t, f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), reopened))

	tracking, err = f.responses.GetBySurveyAndUser(ctx, f.survey.ID, f.responder.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tracking.OpenCount)
	assert.Equal(t, reopened, tracking.LastOpenedAt)
}

func TestCompleteWithoutStart(t *testing.T) {
	f := newResponseFixture()

	_, err := f.svc.Complete(context.Background(), f.survey.ID, f.responderIdentity(), time.Now())
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestCompleteAppliesCountersOnce(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()
	opened := time.Now()

	require.NoError(t, f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), opened))

	completed := opened.Add(125 * time.Second)
	duration, err := f.svc.Complete(ctx, f.survey.ID, f.responderIdentity(), completed)
	require.NoError(t, err)
	assert.Equal(t, 2, duration) // 125s rounds to 2 minutes

	responder := f.users.get(f.responder.ID)
	assert.Equal(t, 1, responder.SurveysAnswered)
	assert.Equal(t, 2.5, responder.Points)
	assert.Equal(t, 1, f.surveys.get(f.survey.ID).ResponseCount)
	assert.Equal(t, 1, f.cache.invalidations)

	// A replay is rejected and moves no counters.
	_, err = f.svc.Complete(ctx, f.survey.ID, f.responderIdentity(), completed.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	responder = f.users.get(f.responder.ID)
	assert.Equal(t, 1, responder.SurveysAnswered)
	assert.Equal(t, 1, f.surveys.get(f.survey.ID).ResponseCount)
}

func TestCompleteDurationNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()
	opened := time.Now()

	require.NoError(t, f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), opened))

	// Client clock skew can report completion before the last open.
	duration, err := f.svc.Complete(ctx, f.survey.ID, f.responderIdentity(), opened.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, duration)
}

func TestCompleteExtendsRespondersOwnSurveys(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()

	oldExpiry := time.Now().Add(24 * time.Hour)
	owned := f.surveys.add(&model.Survey{
		Title:       "Responder's own survey",
		CreatorID:   f.responder.ID,
		IsPublished: true,
		ExpiresAt:   &oldExpiry,
	})
	draft := f.surveys.add(&model.Survey{
		Title:     "Responder's draft",
		CreatorID: f.responder.ID,
	})

	opened := time.Now()
	require.NoError(t, f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), opened))

	completed := opened.Add(3 * time.Minute)
	_, err := f.svc.Complete(ctx, f.survey.ID, f.responderIdentity(), completed)
	require.NoError(t, err)

	extended := f.surveys.get(owned.ID)
	require.NotNil(t, extended.ExpiresAt)
	assert.Equal(t, completed.AddDate(0, 1, 0), *extended.ExpiresAt)

	// Drafts are untouched.
	assert.Nil(t, f.surveys.get(draft.ID).ExpiresAt)

	responder := f.users.get(f.responder.ID)
	require.NotNil(t, responder.LastSurveyExtendedAt)
	assert.Equal(t, completed, *responder.LastSurveyExtendedAt)
}

func TestBannedResponderRejected(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()
	require.NoError(t, f.users.SetBanned(ctx, f.responder.ID, true))

	err := f.svc.Start(ctx, f.survey.ID, f.responderIdentity(), time.Now())
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestAccessErrorNotifiesCreator(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()

	require.NoError(t, f.svc.AccessError(ctx, f.survey.ID, f.responderIdentity()))

	notifications, err := f.notifs.ListByUser(ctx, f.creator.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationSystem, notifications[0].Type)
	assert.Equal(t, f.survey.ID, notifications[0].SurveyID)
}

func TestListForOwnerRejectsNonOwner(t *testing.T) {
	ctx := context.Background()
	f := newResponseFixture()

	_, err := f.svc.ListForOwner(ctx, f.survey.ID, f.responderIdentity())
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.ListForOwner(ctx, f.survey.ID, Identity{UserID: f.creator.ID, Email: f.creator.Email})
	assert.NoError(t, err)
}

func TestTrackMissingSurvey(t *testing.T) {
	f := newResponseFixture()

	err := f.svc.Start(context.Background(), "missing", f.responderIdentity(), time.Now())
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}
