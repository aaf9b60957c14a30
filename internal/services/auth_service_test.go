package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

func newAuthService(env *testEnv) *AuthService {
	return NewAuthService(env.users, env.follows, "access-secret", "refresh-secret", 30*time.Minute, 30*24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	resp, err := auth.Register(&models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)

	login, err := auth.Login("alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	user, err := env.users.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
	// The hash, never the password, is what got stored.
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	_, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Same username, different email.
	_, err = auth.Register(&models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	// Same email, different username.
	_, err = auth.Register(&models.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

// blindUserRepo never sees existing accounts, standing in for the moment
// between a clean pre-check and the insert in two concurrent registrations.
type blindUserRepo struct {
	repositories.UserRepository
}

func (blindUserRepo) UsernameOrEmailTaken(username, email string) (bool, error) {
	return false, nil
}

func TestRegisterRaceHitsUniqueIndex(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(blindUserRepo{env.users}, env.follows, "access-secret", "refresh-secret", 30*time.Minute, 30*24*time.Hour)

	_, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// The pre-check misses the first registration, so the unique index is
	// what rejects the second, and the error still reads as a duplicate.
	_, err = auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	_, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = auth.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// An unknown username reads the same as a bad password.
	_, err = auth.Login("nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	_, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	user, err := env.users.GetUserByUsername("alice")
	require.NoError(t, err)
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	_, err = auth.Login("alice", "hunter2hunter2")
	assert.ErrorIs(t, err, apperrors.ErrInactiveUser)
}

func TestRefreshRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	registered, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)

	registered, err := auth.Register(&models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = auth.Refresh("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// An access token is signed with the other secret and must not pass as a
	// refresh token.
	_, err = auth.Refresh(registered.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestBuildUserResponseCounts(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.createPost(t, alice)
	env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	resp, err := auth.BuildUserResponse(alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.PostCount)
	assert.EqualValues(t, 1, resp.FollowerCount)
	assert.EqualValues(t, 0, resp.FollowingCount)
}
