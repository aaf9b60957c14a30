package models

import "time"

// Like represents a like on a post, unique per (user, post)
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"timestamp"`
}

// CreateLikeRequest defines the request body for liking a post
type CreateLikeRequest struct {
	PostID uint `json:"post_id" validate:"required"`
}
