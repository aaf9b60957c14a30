package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names routed through the work queue.
const (
	TaskNotificationCreate = "notification:create"
)

// NotificationPayload is the wire form of a queued notification write.
type NotificationPayload struct {
	RecipientID      uint   `json:"recipient_id"`
	SenderID         *uint  `json:"sender_id,omitempty"`
	NotificationType string `json:"notification_type"`
	Message          string `json:"message"`
	PostID           *uint  `json:"post_id,omitempty"`
	CommentID        *uint  `json:"comment_id,omitempty"`
}

// Enqueuer hands tasks to the work queue. Callers must treat a returned
// error as "queue unreachable" and fall back to a synchronous write.
type Enqueuer interface {
	EnqueueNotification(payload NotificationPayload) error
}

// AsynqEnqueuer is an Enqueuer backed by a Redis-based asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer creates an AsynqEnqueuer talking to the given Redis address
func NewAsynqEnqueuer(redisAddr string) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// EnqueueNotification enqueues a notification-create task
func (e *AsynqEnqueuer) EnqueueNotification(payload NotificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = e.client.Enqueue(asynq.NewTask(TaskNotificationCreate, data), asynq.MaxRetry(3))
	return err
}

// Close releases the underlying Redis connection
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
