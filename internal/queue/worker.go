package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// NewServeMux builds the asynq handler mux for the worker binary.
func NewServeMux(notifications repositories.NotificationRepository) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNotificationCreate, handleNotificationCreate(notifications))
	return mux
}

func handleNotificationCreate(notifications repositories.NotificationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotificationPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		notification := &models.Notification{
			RecipientID:      payload.RecipientID,
			SenderID:         payload.SenderID,
			NotificationType: payload.NotificationType,
			Message:          payload.Message,
			PostID:           payload.PostID,
			CommentID:        payload.CommentID,
		}
		if err := notifications.CreateNotification(notification); err != nil {
			log.Error().Err(err).Uint("recipient_id", payload.RecipientID).Msg("Failed to store queued notification")
			return err
		}
		return nil
	}
}
