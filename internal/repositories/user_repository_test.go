package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

func newUserRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))
	return NewPostgresUserRepository(db)
}

func seedUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func TestGetUserByUsername(t *testing.T) {
	repo := newUserRepo(t)
	seedUser(t, repo, "alice")

	user, err := repo.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = repo.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSearchByUsername(t *testing.T) {
	repo := newUserRepo(t)
	for _, name := range []string{"alice", "Alicia", "bob", "malice"} {
		seedUser(t, repo, name)
	}

	// Substring match, case-insensitive on both sides.
	users, err := repo.SearchByUsername("ALIC", 0, 20)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alicia", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
	assert.Equal(t, "malice", users[2].Username)

	users, err = repo.SearchByUsername("bob", 0, 20)
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = repo.SearchByUsername("zz", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, users)

	// Paging applies after the match.
	users, err = repo.SearchByUsername("alic", 1, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}
