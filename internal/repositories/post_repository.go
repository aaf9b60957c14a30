package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post, tagNames []string) error
	GetPostByID(id uint) (*models.Post, error)
	GetFeed(userIDs []uint, offset, limit int) ([]models.Post, error)
	GetPostsByUserID(userID uint, offset, limit int) ([]models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	GetLikeCount(postID uint) (int64, error)
	GetCommentCount(postID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a post and attaches its tags, creating missing tags on
// the fly. Tag names are normalized to lower case.
func (r *PostgresPostRepository) CreatePost(post *models.Post, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, name := range tagNames {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			var tag models.Tag
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
				return err
			}
			if err := tx.Model(post).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPostByID retrieves a post by ID with its tags
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetFeed retrieves published posts by the given users, newest first
func (r *PostgresPostRepository) GetFeed(userIDs []uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Tags").
		Where("user_id IN ? AND is_published = ?", userIDs, true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// GetPostsByUserID retrieves a user's published posts, newest first
func (r *PostgresPostRepository) GetPostsByUserID(userID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Tags").
		Where("user_id = ? AND is_published = ?", userID, true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// UpdatePost updates an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost deletes a post. Comments and likes go with it via the cascade
// constraints; the tag join rows are cleared explicitly.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		post := models.Post{ID: id}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// GetLikeCount counts the likes on a post
func (r *PostgresPostRepository) GetLikeCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetCommentCount counts the comments on a post, replies included
func (r *PostgresPostRepository) GetCommentCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
