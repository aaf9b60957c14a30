package services

import (
	"github.com/rs/zerolog/log"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/queue"
	"github.com/photogram/backend/internal/repositories"
)

// Notifier fans out interaction notifications. It prefers the work queue,
// but a failed enqueue degrades to a direct synchronous write: losing a
// notification is worse than a slightly slower request. This is the one spot
// where a collaborator failure is recovered locally instead of surfaced.
type Notifier struct {
	queue         queue.Enqueuer
	notifications repositories.NotificationRepository
}

// NewNotifier creates a Notifier. A nil enqueuer means every write is direct.
func NewNotifier(q queue.Enqueuer, notifications repositories.NotificationRepository) *Notifier {
	return &Notifier{queue: q, notifications: notifications}
}

// Notify records a notification for recipientID about an interaction by
// senderID. Self-interactions are dropped: nobody wants a notification about
// liking their own post.
func (n *Notifier) Notify(recipientID, senderID uint, notificationType, message string, postID, commentID *uint) {
	if recipientID == senderID {
		return
	}

	sender := senderID
	if n.queue != nil {
		payload := queue.NotificationPayload{
			RecipientID:      recipientID,
			SenderID:         &sender,
			NotificationType: notificationType,
			Message:          message,
			PostID:           postID,
			CommentID:        commentID,
		}
		if err := n.queue.EnqueueNotification(payload); err == nil {
			return
		} else {
			log.Warn().Err(err).Msg("Work queue unreachable, writing notification synchronously")
		}
	}

	notification := &models.Notification{
		RecipientID:      recipientID,
		SenderID:         &sender,
		NotificationType: notificationType,
		Message:          message,
		PostID:           postID,
		CommentID:        commentID,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Error().Err(err).Uint("recipient_id", recipientID).Msg("Failed to store notification")
	}
}
