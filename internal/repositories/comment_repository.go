package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetTopLevelByPostID(postID uint) ([]models.Comment, error)
	HasUserReplied(parentID, userID uint) (bool, error)
	DeleteCommentWithReplies(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts a comment. For replies, the unique
// (parent_id, user_id) index makes concurrent duplicates fail with
// gorm.ErrDuplicatedKey.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetTopLevelByPostID retrieves the top-level comments of a post in creation
// order, each with its replies preloaded in creation order.
func (r *PostgresCommentRepository) GetTopLevelByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// HasUserReplied reports whether a user already replied under a parent comment
func (r *PostgresCommentRepository) HasUserReplied(parentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("parent_id = ? AND user_id = ?", parentID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteCommentWithReplies deletes a comment and, for a top-level comment,
// its replies in the same transaction.
func (r *PostgresCommentRepository) DeleteCommentWithReplies(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}
