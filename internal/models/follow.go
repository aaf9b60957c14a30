package models

import "time"

// Follow represents a directed follow edge, unique per ordered pair
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"timestamp"`
}

// CreateFollowRequest defines the request body for following a user
type CreateFollowRequest struct {
	FollowingID uint `json:"following_id" validate:"required"`
}

// FollowerInfo is a lightweight user summary used in follower, following and
// liker listings, annotated with whether the requesting user follows them.
type FollowerInfo struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
	IsFollowing    bool   `json:"is_following"`
}
