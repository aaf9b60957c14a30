package models

import "time"

// Notification types emitted by interactions.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationFollow  = "follow"
)

// Notification represents a user notification. SenderID is null for system
// notifications; PostID and CommentID are set when the interaction targets one.
type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	RecipientID      uint      `json:"recipient_id" gorm:"index"`
	SenderID         *uint     `json:"sender_id,omitempty" gorm:"index"`
	NotificationType string    `json:"notification_type" gorm:"size:50"`
	Message          string    `json:"message" gorm:"type:text"`
	PostID           *uint     `json:"post_id,omitempty"`
	CommentID        *uint     `json:"comment_id,omitempty"`
	IsRead           bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt        time.Time `json:"timestamp" gorm:"index"`
}

// NotificationResponse is a notification with the sender flattened in.
type NotificationResponse struct {
	ID                   uint      `json:"id"`
	RecipientID          uint      `json:"recipient_id"`
	SenderID             *uint     `json:"sender_id,omitempty"`
	NotificationType     string    `json:"notification_type"`
	Message              string    `json:"message"`
	PostID               *uint     `json:"post_id,omitempty"`
	CommentID            *uint     `json:"comment_id,omitempty"`
	IsRead               bool      `json:"is_read"`
	Timestamp            time.Time `json:"timestamp"`
	SenderUsername       string    `json:"sender_username,omitempty"`
	SenderProfilePicture string    `json:"sender_profile_picture,omitempty"`
}
