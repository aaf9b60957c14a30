package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photogram/backend/internal/apperrors"
)

func TestFollowSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.graph.Follow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfFollow)
}

func TestFollowMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.graph.Follow(alice.ID, alice.ID+1000)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFollowTwice(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.graph.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.graph.Follow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFollowing)

	// The graph is unchanged: still exactly one edge.
	count, err := env.follows.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollowNotifiesTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.graph.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	notifications, err := env.notifications.GetUnreadByRecipientID(bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "follow", notifications[0].NotificationType)
	assert.Equal(t, "alice started following you", notifications[0].Message)
}

func TestUnfollow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.graph.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, env.graph.Unfollow(alice.ID, bob.ID))

	err = env.graph.Unfollow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFollowing)
}

func TestIsVisible(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	// Owners always see their own content.
	visible, err := env.graph.IsVisible(alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = env.graph.IsVisible(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, visible)

	_, err = env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	visible, err = env.graph.IsVisible(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, visible)

	// Visibility is directed: alice still cannot see bob.
	visible, err = env.graph.IsVisible(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, visible)

	// An unfollow takes effect on the very next check.
	require.NoError(t, env.graph.Unfollow(bob.ID, alice.ID))
	visible, err = env.graph.IsVisible(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestFollowerListings(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.graph.Follow(carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.graph.Follow(bob.ID, carol.ID)
	require.NoError(t, err)

	followers, err := env.graph.Followers(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	byName := map[string]bool{}
	for _, f := range followers {
		byName[f.Username] = f.IsFollowing
	}
	assert.False(t, byName["bob"])  // bob does not follow himself
	assert.True(t, byName["carol"]) // bob follows carol
}
