package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photogram/backend/internal/models"
)

func TestNotifyPrefersQueue(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.enqueuer.fail = false

	env.notifier.Notify(alice.ID, bob.ID, models.NotificationFollow, "bob started following you", nil, nil)

	require.Len(t, env.enqueuer.payloads, 1)
	payload := env.enqueuer.payloads[0]
	assert.Equal(t, alice.ID, payload.RecipientID)
	require.NotNil(t, payload.SenderID)
	assert.Equal(t, bob.ID, *payload.SenderID)
	assert.Equal(t, models.NotificationFollow, payload.NotificationType)

	// Nothing hits the database when the queue takes the job.
	count, err := env.notifications.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotifyFallsBackWhenQueueDown(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.enqueuer.fail = true

	env.notifier.Notify(alice.ID, bob.ID, models.NotificationFollow, "bob started following you", nil, nil)

	assert.Empty(t, env.enqueuer.payloads)
	notifications, err := env.notifications.GetUnreadByRecipientID(alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "bob started following you", notifications[0].Message)
	assert.False(t, notifications[0].IsRead)
}

func TestNotifySelfDropped(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	env.enqueuer.fail = false

	env.notifier.Notify(alice.ID, alice.ID, models.NotificationLike, "alice liked your post", nil, nil)

	assert.Empty(t, env.enqueuer.payloads)
	count, err := env.notifications.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotifyWithoutQueueWritesDirect(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	direct := NewNotifier(nil, env.notifications)
	direct.Notify(alice.ID, bob.ID, models.NotificationLike, "bob liked your post", nil, nil)

	count, err := env.notifications.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
