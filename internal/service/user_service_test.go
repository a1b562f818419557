package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surq/internal/model"
)

func TestProfileDerivesCredits(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	cache := newFakeProfileCache()
	svc := NewUserService(users, cache)

	user := users.add(&model.User{Email: "peggy@example.com", SurveysAnswered: 9, SurveysCreated: 1})

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.AvailableCredits)       // floor(9/4) - 1
	assert.Equal(t, 3, profile.AnswersUntilNextCredit) // 9 % 4 = 1, 3 to go

	// The miss populated the cache.
	cached, err := cache.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 1, cached.AvailableCredits)
}

func TestProfileServedFromCache(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	cache := newFakeProfileCache()
	svc := NewUserService(users, cache)

	user := users.add(&model.User{Email: "peggy@example.com", SurveysAnswered: 4})

	first, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)

	// Mutate the store without invalidating; the stale cached view wins.
	require.NoError(t, users.IncrementAnswered(ctx, user.ID, 4))

	second, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AvailableCredits, second.AvailableCredits)
}

func TestProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeProfileCache())

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetBannedInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	cache := newFakeProfileCache()
	svc := NewUserService(users, cache)

	user := users.add(&model.User{Email: "victor@example.com"})

	_, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetBanned(ctx, user.ID, true))
	assert.Equal(t, 1, cache.invalidations)
	assert.True(t, users.get(user.ID).IsBanned)

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsBanned)
}

func TestSetBannedUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeProfileCache())

	err := svc.SetBanned(context.Background(), "missing", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
