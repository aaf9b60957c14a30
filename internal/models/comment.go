package models

import "time"

// Comment belongs to one post and one user. A comment either has no parent
// (top level) or points at a top-level comment in the same post; replies can
// never be replied to. The unique index on (parent_id, user_id) backs the
// one-reply-per-user rule; NULL parents never collide, so top-level comments
// are unaffected.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_comment_parent_user"`
	PostID    uint      `json:"post_id" gorm:"index"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index;uniqueIndex:idx_comment_parent_user"`
	Text      string    `json:"text" gorm:"type:text"`
	CreatedAt time.Time `json:"timestamp"`

	Replies []Comment `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	PostID   uint   `json:"post_id" validate:"required"`
	Text     string `json:"text" validate:"required,min=1,max=2200"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// CommentResponse is a comment annotated with author details and, for
// top-level comments, its ordered replies.
type CommentResponse struct {
	ID                 uint              `json:"id"`
	UserID             uint              `json:"user_id"`
	PostID             uint              `json:"post_id"`
	ParentID           *uint             `json:"parent_id,omitempty"`
	Text               string            `json:"text"`
	Timestamp          time.Time         `json:"timestamp"`
	Username           string            `json:"username"`
	UserProfilePicture string            `json:"user_profile_picture"`
	Replies            []CommentResponse `json:"replies,omitempty"`
	ReplyCount         int               `json:"reply_count"`
}
