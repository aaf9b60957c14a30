package services

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/pkg/storage"
)

// CleanupService runs the periodic reclamation sweeps. Both sweeps are
// idempotent and safe to overlap with live traffic and with themselves: a
// row already deleted by one run is simply absent for the next.
type CleanupService struct {
	stories       repositories.StoryRepository
	notifications repositories.NotificationRepository
	blob          storage.BlobStore
}

// NewCleanupService creates a new CleanupService
func NewCleanupService(stories repositories.StoryRepository, notifications repositories.NotificationRepository, blob storage.BlobStore) *CleanupService {
	return &CleanupService{stories: stories, notifications: notifications, blob: blob}
}

// ReclaimExpiredStories deletes every story past its expiry, media first so
// a crash mid-sweep leaves at worst an expired row to re-sweep, never a live
// row pointing at deleted media.
func (s *CleanupService) ReclaimExpiredStories() (int, error) {
	expired, err := s.stories.GetExpired(time.Now())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, story := range expired {
		if err := s.blob.Delete(story.Image, storiesFolder); err != nil {
			// Leave the row for the next sweep to retry.
			log.Warn().Err(err).Uint("story_id", story.ID).Msg("Failed to delete story media, skipping row")
			continue
		}
		if err := s.stories.DeleteStory(story.ID); err != nil {
			log.Warn().Err(err).Uint("story_id", story.ID).Msg("Failed to delete expired story row")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Reclaimed expired stories")
	}
	return removed, nil
}

// PruneNotifications deletes read notifications older than the retention
// window and returns how many were removed.
func (s *CleanupService) PruneNotifications(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.notifications.DeleteReadOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Pruned old notifications")
	}
	return deleted, nil
}
