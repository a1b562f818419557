package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surq/internal/model"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	registered, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", registered.Email)
	assert.NotEmpty(t, registered.Token)

	// Login with differently-cased email still matches.
	logged, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "ALICE@example.COM",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, logged.UserID)

	claims, err := svc.ValidateToken(logged.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	_, err := svc.Register(ctx, &model.RegisterRequest{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{Email: "Bob@Example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	_, err := svc.Register(ctx, &model.RegisterRequest{Email: "carol@example.com", Password: "correct"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "carol@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	issuer := NewAuthService(users, "secret-a")
	verifier := NewAuthService(users, "secret-b")

	resp, err := issuer.Register(ctx, &model.RegisterRequest{Email: "dave@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
