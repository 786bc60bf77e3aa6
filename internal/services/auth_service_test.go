package services

import (
	"context"
	"testing"

	"warung-pos/config"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, repository.ProfileRepository) {
	t.Helper()

	db := openTestDB(t)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryMin: 60}
	return NewAuthService(userRepo, profileRepo, cfg), profileRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, profileRepo := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:    "Kasir@warung.id",
		Password: "rahasia-banget",
		FullName: "Siti Kasir",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "kasir@warung.id", res.User.Email)
	assert.Equal(t, profile.RoleCashier, res.User.Role)

	userID, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)
	p, err := profileRepo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Siti Kasir", p.FullName)

	login, err := svc.Login(ctx, LoginInput{Email: "kasir@warung.id", Password: "rahasia-banget"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "kasir@warung.id", Password: "salah"})
	assert.ErrorIs(t, err, warung_errors.ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "no-at-sign", Password: "rahasia-banget", FullName: "X"})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.id", Password: "short", FullName: "X"})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.id", Password: "rahasia-banget", FullName: "X", Role: "superuser"})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "owner@warung.id", Password: "rahasia-banget", FullName: "Owner", Role: profile.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "owner@warung.id", Password: "rahasia-lain", FullName: "Owner Dua"})
	assert.ErrorIs(t, err, warung_errors.ErrAlreadyExists)
}

func TestValidateTokenAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "antar@warung.id", Password: "rahasia-banget", FullName: "Budi", Role: profile.RoleDeliverer})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, profile.RoleDeliverer, claims.Role)

	sessionID, err := uuid.Parse(res.SessionID)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sessionID))

	_, err = svc.ValidateToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, warung_errors.ErrUnauthorized)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, warung_errors.ErrUnauthorized)
}
