package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// AuthService owns registration, credential checks and token issuance.
// Access and refresh tokens are HMAC-signed JWTs with separate secrets.
type AuthService struct {
	users         repositories.UserRepository
	follows       repositories.FollowRepository
	jwtSecret     string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, follows repositories.FollowRepository, jwtSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		follows:       follows,
		jwtSecret:     jwtSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Register creates a user with a hashed password and an empty profile, and
// returns a fresh token pair.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.TokenResponse, error) {
	taken, err := s.users.UsernameOrEmailTaken(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.CreateUser(user); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// indexes on username and email have the final say.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, err
	}
	if err := s.users.CreateProfile(&models.Profile{UserID: user.ID}); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

// Login verifies the credentials and returns a fresh token pair.
func (s *AuthService) Login(username, password string) (*models.TokenResponse, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}

	if err := s.users.TouchLastLogin(user.ID, time.Now()); err != nil {
		return nil, err
	}
	return s.tokenResponse(user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*models.TokenResponse, error) {
	userID, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return s.tokenResponse(user)
}

// VerifyRefreshToken validates a refresh token and returns the user ID it
// was issued for.
func (s *AuthService) VerifyRefreshToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, apperrors.ErrInvalidToken
	}
	return uint(userID), nil
}

// BuildUserResponse assembles the user payload with profile fields and
// follower, following and post counters.
func (s *AuthService) BuildUserResponse(user *models.User) (*models.UserResponse, error) {
	resp := &models.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
	}
	if user.Profile != nil {
		resp.Bio = user.Profile.Bio
		resp.ProfilePicture = user.Profile.ProfilePicture
		resp.Website = user.Profile.Website
		resp.Location = user.Profile.Location
	}

	var err error
	if resp.PostCount, err = s.users.CountPosts(user.ID); err != nil {
		return nil, err
	}
	if resp.FollowerCount, err = s.follows.GetFollowersCount(user.ID); err != nil {
		return nil, err
	}
	if resp.FollowingCount, err = s.follows.GetFollowingCount(user.ID); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AuthService) tokenResponse(user *models.User) (*models.TokenResponse, error) {
	access, err := s.issueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	userResp, err := s.BuildUserResponse(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         userResp,
	}, nil
}

func (s *AuthService) issueAccessToken(userID uint) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) issueRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.refreshSecret))
}
