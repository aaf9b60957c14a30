package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account holder. Deleting a user cascades to everything they own.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"size:150;uniqueIndex"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	DateJoined   time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	Profile *Profile `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Profile holds the optional public-facing details of a user.
type Profile struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex"`
	Bio            string     `json:"bio" gorm:"type:text"`
	ProfilePicture string     `json:"profile_picture" gorm:"size:500"`
	Website        string     `json:"website" gorm:"size:200"`
	Location       string     `json:"location" gorm:"size:100"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for user login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest defines the request body for refreshing an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating a profile
type UpdateProfileRequest struct {
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Website  string `json:"website,omitempty" validate:"omitempty,max=200"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

// UserResponse is a user enriched with profile details and counters.
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	IsActive       bool      `json:"is_active"`
	DateJoined     time.Time `json:"date_joined"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	Website        string    `json:"website"`
	Location       string    `json:"location"`
	PostCount      int64     `json:"post_count"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
}

// TokenResponse is returned by register, login and refresh.
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	User         *UserResponse `json:"user,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
