package services

import (
	"context"
	"testing"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/config"
	"lexora-lms/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		cfg,
	)
}

func TestRegisterCreatesMemberAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	result, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.Equal(t, models.RoleMember, result.User.Role)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	// Password is stored hashed, never plaintext.
	var user models.User
	require.NoError(t, db.First(&user, result.User.ID).Error)
	require.NotEqual(t, "correct-horse", user.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &LoginInput{
		Username: "reader1",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.Equal(t, "reader1", result.User.Username)

	claims, err := svc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, models.RoleMember, claims.Role)

	_, err = svc.Login(context.Background(), &LoginInput{
		Username: "reader1",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{
		Username: "nobody",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	result, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", result.User.ID).
		Update("is_active", false).Error)

	_, err = svc.Login(context.Background(), &LoginInput{
		Username: "reader1",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	registered, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The rotated-out token is revoked and cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	// The new one still works.
	_, err = svc.RefreshToken(context.Background(), refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	registered, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), registered.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestAuthService(db)

	registered, err := svc.Register(context.Background(), &RegisterInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	second, err := svc.Login(context.Background(), &LoginInput{
		Username: "reader1",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), registered.User.ID))

	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = svc.RefreshToken(context.Background(), second.RefreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}
