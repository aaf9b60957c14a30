package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

func TestCreateCommentRequiresVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)

	_, err := env.commentService.CreateComment(post.ID, bob.ID, "nice", nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	comment, err := env.commentService.CreateComment(post.ID, bob.ID, "nice", nil)
	require.NoError(t, err)
	assert.False(t, comment.IsReply())
}

func TestCreateCommentMissingPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.commentService.CreateComment(9999, alice.ID, "hello", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReplyToReplyRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	top, err := env.commentService.CreateComment(post.ID, alice.ID, "top", nil)
	require.NoError(t, err)
	reply, err := env.commentService.CreateComment(post.ID, bob.ID, "reply", &top.ID)
	require.NoError(t, err)

	// Depth is capped at two: replying to a reply fails no matter who asks.
	_, err = env.commentService.CreateComment(post.ID, alice.ID, "deeper", &reply.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = env.commentService.CreateComment(post.ID, bob.ID, "deeper", &reply.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReplyCrossPostRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	postA := env.createPost(t, alice)
	postB := env.createPost(t, alice)

	top, err := env.commentService.CreateComment(postA.ID, alice.ID, "on post A", nil)
	require.NoError(t, err)

	_, err = env.commentService.CreateComment(postB.ID, alice.ID, "wrong post", &top.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReplyMissingParent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice)

	missing := uint(9999)
	_, err := env.commentService.CreateComment(post.ID, alice.ID, "orphan", &missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOneReplyPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	post := env.createPost(t, alice)
	for _, u := range []*models.User{bob, carol} {
		_, err := env.graph.Follow(u.ID, alice.ID)
		require.NoError(t, err)
	}

	top, err := env.commentService.CreateComment(post.ID, alice.ID, "top", nil)
	require.NoError(t, err)

	_, err = env.commentService.CreateComment(post.ID, bob.ID, "first", &top.ID)
	require.NoError(t, err)

	_, err = env.commentService.CreateComment(post.ID, bob.ID, "second", &top.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReply)

	// A different user replying to the same parent is fine.
	_, err = env.commentService.CreateComment(post.ID, carol.ID, "also first", &top.ID)
	require.NoError(t, err)
}

func TestMultipleTopLevelCommentsPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice)

	// The one-reply rule only binds replies; top-level comments are unlimited.
	for i := 0; i < 3; i++ {
		_, err := env.commentService.CreateComment(post.ID, alice.ID, "again", nil)
		require.NoError(t, err)
	}
}

func TestCommentNotifications(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	// Commenting on someone else's post notifies the post owner.
	comment, err := env.commentService.CreateComment(post.ID, bob.ID, "hi", nil)
	require.NoError(t, err)

	notifications, err := env.notifications.GetUnreadByRecipientID(alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationComment, notifications[0].NotificationType)
	require.NotNil(t, notifications[0].CommentID)
	assert.Equal(t, comment.ID, *notifications[0].CommentID)

	// Replying notifies the parent-comment author, not the post owner.
	reply, err := env.commentService.CreateComment(post.ID, alice.ID, "thanks", &comment.ID)
	require.NoError(t, err)

	bobNotifications, err := env.notifications.GetUnreadByRecipientID(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobNotifications, 1)
	assert.Equal(t, models.NotificationReply, bobNotifications[0].NotificationType)
	require.NotNil(t, bobNotifications[0].CommentID)
	assert.Equal(t, reply.ID, *bobNotifications[0].CommentID)

	// Alice commenting on her own post notifies nobody.
	_, err = env.commentService.CreateComment(post.ID, alice.ID, "self", nil)
	require.NoError(t, err)
	aliceNotifications, err := env.notifications.GetUnreadByRecipientID(alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceNotifications, 1)
}

func TestListCommentsOrdering(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	first, err := env.commentService.CreateComment(post.ID, alice.ID, "first", nil)
	require.NoError(t, err)
	second, err := env.commentService.CreateComment(post.ID, bob.ID, "second", nil)
	require.NoError(t, err)
	_, err = env.commentService.CreateComment(post.ID, bob.ID, "reply to first", &first.ID)
	require.NoError(t, err)

	comments, err := env.commentService.ListComments(post.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "reply to first", comments[0].Replies[0].Text)
	assert.Empty(t, comments[1].Replies)
}

func TestListCommentsRequiresVisibility(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)

	_, err := env.commentService.ListComments(post.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	comment, err := env.commentService.CreateComment(post.ID, bob.ID, "mine", nil)
	require.NoError(t, err)

	// Not even the post owner may delete someone else's comment.
	err = env.commentService.DeleteComment(comment.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, env.commentService.DeleteComment(comment.ID, bob.ID))
	err = env.commentService.DeleteComment(comment.ID, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteTopLevelCascadesReplies(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, alice)
	_, err := env.graph.Follow(bob.ID, alice.ID)
	require.NoError(t, err)

	top, err := env.commentService.CreateComment(post.ID, alice.ID, "top", nil)
	require.NoError(t, err)
	reply, err := env.commentService.CreateComment(post.ID, bob.ID, "reply", &top.ID)
	require.NoError(t, err)

	require.NoError(t, env.commentService.DeleteComment(top.ID, alice.ID))

	_, err = env.comments.GetCommentByID(reply.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
