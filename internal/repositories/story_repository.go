package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// StoryRepository defines the interface for story data operations. Every read
// takes the caller's notion of now so expired stories are filtered out at the
// query level.
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	GetActiveByUserIDs(userIDs []uint, now time.Time) ([]models.Story, error)
	GetActiveByUserID(userID uint, now time.Time) ([]models.Story, error)
	GetExpired(now time.Time) ([]models.Story, error)
	DeleteStory(id uint) error
	MarkViewed(view *models.StoryView) error
	HasViewed(storyID, viewerID uint) (bool, error)
	GetViewers(storyID uint) ([]models.User, error)
	GetViewCount(storyID uint) (int64, error)
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// CreateStory creates a new story
func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

// GetStoryByID retrieves a story by ID, expired or not; callers doing reads
// on behalf of viewers must filter on ExpiresAt themselves.
func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// GetActiveByUserIDs retrieves unexpired stories by the given users, newest first
func (r *PostgresStoryRepository) GetActiveByUserIDs(userIDs []uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.
		Where("user_id IN ? AND expires_at > ?", userIDs, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// GetActiveByUserID retrieves a single user's unexpired stories, newest first
func (r *PostgresStoryRepository) GetActiveByUserID(userID uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// GetExpired retrieves every story whose expiry has passed
func (r *PostgresStoryRepository) GetExpired(now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("expires_at <= ?", now).Find(&stories).Error
	return stories, err
}

// DeleteStory deletes a story and its view rows
func (r *PostgresStoryRepository) DeleteStory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Story{}, id).Error
	})
}

// MarkViewed inserts a view row. The unique (story, viewer) index makes
// repeat views fail with gorm.ErrDuplicatedKey.
func (r *PostgresStoryRepository) MarkViewed(view *models.StoryView) error {
	return r.db.Create(view).Error
}

// HasViewed reports whether a viewer has seen a story
func (r *PostgresStoryRepository) HasViewed(storyID, viewerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.StoryView{}).Where("story_id = ? AND viewer_id = ?", storyID, viewerID).Count(&count).Error
	return count > 0, err
}

// GetViewers retrieves the users who viewed a story
func (r *PostgresStoryRepository) GetViewers(storyID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Profile").Where("id IN (?)",
		r.db.Table("story_views").Select("viewer_id").Where("story_id = ?", storyID),
	).Find(&users).Error
	return users, err
}

// GetViewCount counts the views of a story
func (r *PostgresStoryRepository) GetViewCount(storyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.StoryView{}).Where("story_id = ?", storyID).Count(&count).Error
	return count, err
}
