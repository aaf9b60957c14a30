package models

import "time"

// Post represents a published media post
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Caption     string    `json:"caption" gorm:"type:text"`
	Image       string    `json:"image" gorm:"size:500"`
	IsPublished bool      `json:"is_published" gorm:"default:true"`
	CreatedAt   time.Time `json:"timestamp" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Owned rows go away with the post.
	Comments []Comment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
}

// Tag is a label attached to posts, many-to-many
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatePostRequest defines the request body for updating a post caption
type UpdatePostRequest struct {
	Caption string `json:"caption" validate:"max=2200"`
}

// PostResponse is a post annotated with author and counter details.
type PostResponse struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	Caption            string    `json:"caption"`
	Image              string    `json:"image"`
	IsPublished        bool      `json:"is_published"`
	Timestamp          time.Time `json:"timestamp"`
	Username           string    `json:"username"`
	UserProfilePicture string    `json:"user_profile_picture"`
	LikeCount          int64     `json:"like_count"`
	CommentCount       int64     `json:"comment_count"`
	IsLiked            bool      `json:"is_liked"`
	Tags               []string  `json:"tags"`
}
