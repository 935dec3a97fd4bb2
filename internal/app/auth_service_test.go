package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrose-ai/internal/pkg/jwtutil"
	"redrose-ai/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "rose", Email: "Rose@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "rose@example.com", registered.User.Email)

	claims, err := jwtutil.ParseToken("test-secret", registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, LoginInput{Username: "rose", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	user, err := svc.GetUserByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "rose", user.Username)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "rose", Email: "rose@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "rose", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "tulip", Email: "ROSE@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "lily", Email: "lily@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "rose", Email: "rose@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "rose", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
