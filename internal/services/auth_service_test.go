package services

import (
	"testing"

	"github.com/catatanku/backend/internal/config"
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	return cfg
}

func register(t *testing.T, svc *AuthService, username string) *dto.AuthResponse {
	t.Helper()

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp := register(t, svc, "alice")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	resp, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotNil(t, resp.User.LastLogin)
	// First login creates the profile.
	assert.NotNil(t, resp.User.ProfileID)

	_, err = svc.Login(&dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	register(t, svc, "alice")

	_, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
}

func TestRegisterConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	register(t, svc, "alice")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(&dto.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestOauthLoginCreatesAccountWithoutPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.OauthLogin(&dto.OauthLoginRequest{Username: "gina", Email: "gina@example.com"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsOauth)

	var user models.User
	require.NoError(t, db.Where("email = ?", "gina@example.com").First(&user).Error)
	assert.Nil(t, user.Password)

	// Password login against an oauth account never succeeds.
	_, err = svc.Login(&dto.LoginRequest{Username: "gina", Password: "anything"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// A second oauth login reuses the account.
	again, err := svc.OauthLogin(&dto.OauthLoginRequest{Username: "gina", Email: "gina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
}

func TestRefreshRotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	resp := register(t, svc, "alice")

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The old token is single-use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())
	resp := register(t, svc, "alice")

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)

	var stored models.RefreshToken
	require.NoError(t, db.Session(&gorm.Session{}).
		Where("user_id = ?", resp.User.ID).First(&stored).Error)
	assert.True(t, stored.Revoked)
}
