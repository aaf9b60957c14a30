package models

import "time"

// Story is an ephemeral media post. ExpiresAt is fixed at creation time and
// stories past it are invisible to every read until the reclamation sweep
// removes them.
type Story struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Image     string    `json:"image" gorm:"size:500"`
	MediaType string    `json:"media_type" gorm:"size:10;default:image"` // "image" or "video"
	Caption   string    `json:"caption" gorm:"type:text"`
	CreatedAt time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`

	Views []StoryView `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// StoryView records that a viewer has seen a story, once per (story, viewer)
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  uint      `json:"story_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	ViewerID uint      `json:"viewer_id" gorm:"index;uniqueIndex:idx_story_viewer"`
	ViewedAt time.Time `json:"viewed_at" gorm:"autoCreateTime"`
}

// StoryResponse is a story annotated with author details.
type StoryResponse struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	Image              string    `json:"image"`
	MediaType          string    `json:"media_type"`
	Caption            string    `json:"caption"`
	Timestamp          time.Time `json:"timestamp"`
	ExpiresAt          time.Time `json:"expires_at"`
	Username           string    `json:"username"`
	UserProfilePicture string    `json:"user_profile_picture"`
	ViewCount          int64     `json:"view_count"`
	Viewed             bool      `json:"viewed"`
}
