package repositories

import (
	"gorm.io/gorm"

	"github.com/photogram/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID, userID uint) (bool, error)
	GetLikesByPostID(postID uint) ([]models.Like, error)
	HasUserLikedPost(postID, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts a like. The unique (user, post) index makes concurrent
// duplicate likes fail with gorm.ErrDuplicatedKey.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike removes a like and reports whether one existed
func (r *PostgresLikeRepository) DeleteLike(postID, userID uint) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetLikesByPostID retrieves all likes on a post
func (r *PostgresLikeRepository) GetLikesByPostID(postID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// HasUserLikedPost reports whether a user has liked a post
func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
