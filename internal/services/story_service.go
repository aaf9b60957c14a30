package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/pkg/storage"
)

const storiesFolder = "stories"

// Videos get a larger size cap than images.
const videoSizeFactor = 5

// StoryService handles ephemeral stories: creation with a fixed expiry,
// follow-gated reads that exclude expired rows, and per-viewer view marks.
type StoryService struct {
	stories     repositories.StoryRepository
	follows     repositories.FollowRepository
	graph       *SocialGraphService
	blob        storage.BlobStore
	maxFileSize int64
	ttl         time.Duration
}

// NewStoryService creates a new StoryService
func NewStoryService(stories repositories.StoryRepository, follows repositories.FollowRepository, graph *SocialGraphService, blob storage.BlobStore, maxFileSize int64, ttl time.Duration) *StoryService {
	return &StoryService{stories: stories, follows: follows, graph: graph, blob: blob, maxFileSize: maxFileSize, ttl: ttl}
}

// CreateStory stores the uploaded media, infers its kind from the extension
// and creates a story expiring exactly ttl after creation.
func (s *StoryService) CreateStory(userID uint, caption string, media *multipart.FileHeader) (*models.Story, error) {
	mediaType, err := storage.MediaTypeFor(media.Filename)
	if err != nil {
		return nil, err
	}

	allowed := storage.ImageExtensions
	maxSize := s.maxFileSize
	if mediaType == "video" {
		allowed = storage.VideoExtensions
		maxSize = s.maxFileSize * videoSizeFactor
	}

	filename, err := s.blob.Store(media, allowed, maxSize, storiesFolder)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	story := &models.Story{
		UserID:    userID,
		Image:     filename,
		MediaType: mediaType,
		Caption:   caption,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.stories.CreateStory(story); err != nil {
		_ = s.blob.Delete(filename, storiesFolder)
		return nil, err
	}
	return story, nil
}

// GetFeed returns the active stories of the user and everyone they follow,
// newest first.
func (s *StoryService) GetFeed(userID uint) ([]models.Story, error) {
	followingIDs, err := s.follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.stories.GetActiveByUserIDs(append(followingIDs, userID), time.Now())
}

// GetUserStories returns a user's active stories, gated on visibility.
func (s *StoryService) GetUserStories(ownerID, viewerID uint) ([]models.Story, error) {
	if err := s.graph.EnsureVisible(viewerID, ownerID); err != nil {
		return nil, err
	}
	return s.stories.GetActiveByUserID(ownerID, time.Now())
}

// MarkViewed records that viewerID has seen a story. Expired stories read as
// missing. Marking twice is a no-op, backed by the unique (story, viewer)
// constraint.
func (s *StoryService) MarkViewed(storyID, viewerID uint) error {
	story, err := s.getActiveStory(storyID)
	if err != nil {
		return err
	}
	if err := s.graph.EnsureVisible(viewerID, story.UserID); err != nil {
		return err
	}

	view := &models.StoryView{StoryID: storyID, ViewerID: viewerID}
	if err := s.stories.MarkViewed(view); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// GetViewers lists who viewed a story; only the owner may ask.
func (s *StoryService) GetViewers(storyID, userID uint) ([]models.User, error) {
	story, err := s.stories.GetStoryByID(storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return s.stories.GetViewers(storyID)
}

// DeleteStory removes a story owned by userID, media first, then the row.
func (s *StoryService) DeleteStory(storyID, userID uint) error {
	story, err := s.stories.GetStoryByID(storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := s.blob.Delete(story.Image, storiesFolder); err != nil {
		return fmt.Errorf("deleting story media: %w", err)
	}
	return s.stories.DeleteStory(storyID)
}

func (s *StoryService) getActiveStory(storyID uint) (*models.Story, error) {
	story, err := s.stories.GetStoryByID(storyID)
	if err != nil {
		return nil, err
	}
	if !story.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("story expired: %w", apperrors.ErrNotFound)
	}
	return story, nil
}
