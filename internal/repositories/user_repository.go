package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UsernameOrEmailTaken(username, email string) (bool, error)
	ListUsers(offset, limit int) ([]models.User, error)
	SearchByUsername(query string, offset, limit int) ([]models.User, error)
	TouchLastLogin(id uint, at time.Time) error

	CreateProfile(profile *models.Profile) error
	GetProfileByUserID(userID uint) (*models.Profile, error)
	UpdateProfile(profile *models.Profile) error

	CountPosts(userID uint) (int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID, preloading the profile
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UsernameOrEmailTaken reports whether a user with this username or email exists
func (r *PostgresUserRepository) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// ListUsers retrieves a page of users
func (r *PostgresUserRepository) ListUsers(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Profile").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// SearchByUsername retrieves a page of users whose username contains the
// query, case-insensitively
func (r *PostgresUserRepository) SearchByUsername(query string, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Profile").
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("username ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

// TouchLastLogin records a successful login time
func (r *PostgresUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// CreateProfile creates an empty profile for a new user
func (r *PostgresUserRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetProfileByUserID retrieves the profile belonging to a user
func (r *PostgresUserRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates an existing profile
func (r *PostgresUserRepository) UpdateProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// CountPosts counts the published posts owned by a user
func (r *PostgresUserRepository) CountPosts(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id = ? AND is_published = ?", userID, true).Count(&count).Error
	return count, err
}
