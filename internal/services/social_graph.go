package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// SocialGraphService owns the follow graph and the visibility predicate every
// content read and write is gated on.
type SocialGraphService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier *Notifier
}

// NewSocialGraphService creates a new SocialGraphService
func NewSocialGraphService(follows repositories.FollowRepository, users repositories.UserRepository, notifier *Notifier) *SocialGraphService {
	return &SocialGraphService{follows: follows, users: users, notifier: notifier}
}

// IsVisible reports whether owner's content is visible to viewer: the owner
// always sees their own content, everyone else must hold a follow edge. The
// check is evaluated fresh on every call; caching it would serve stale
// authorization after an unfollow.
func (s *SocialGraphService) IsVisible(viewerID, ownerID uint) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	return s.follows.IsFollowing(viewerID, ownerID)
}

// EnsureVisible returns ErrForbidden when owner's content is not visible to viewer
func (s *SocialGraphService) EnsureVisible(viewerID, ownerID uint) error {
	visible, err := s.IsVisible(viewerID, ownerID)
	if err != nil {
		return err
	}
	if !visible {
		return apperrors.ErrForbidden
	}
	return nil
}

// Follow creates a follow edge from follower to target and notifies the
// target. Duplicate edges are rejected by the unique constraint so exactly
// one of two concurrent follows succeeds.
func (s *SocialGraphService) Follow(followerID, targetID uint) (*models.Follow, error) {
	if followerID == targetID {
		return nil, apperrors.ErrSelfFollow
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		return nil, fmt.Errorf("target user: %w", err)
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := s.follows.CreateFollow(follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyFollowing
		}
		return nil, err
	}

	if actor, err := s.users.GetUserByID(followerID); err == nil {
		s.notifier.Notify(targetID, followerID, models.NotificationFollow,
			actor.Username+" started following you", nil, nil)
	}
	return follow, nil
}

// Unfollow removes the follow edge from follower to target
func (s *SocialGraphService) Unfollow(followerID, targetID uint) error {
	removed, err := s.follows.DeleteFollow(followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.ErrNotFollowing
	}
	return nil
}

// Followers lists the followers of userID, each annotated with whether
// requesterID follows them.
func (s *SocialGraphService) Followers(userID, requesterID uint) ([]models.FollowerInfo, error) {
	users, err := s.follows.GetFollowers(userID)
	if err != nil {
		return nil, err
	}
	return s.annotate(users, requesterID)
}

// Following lists the users userID follows, each annotated with whether
// requesterID follows them.
func (s *SocialGraphService) Following(userID, requesterID uint) ([]models.FollowerInfo, error) {
	users, err := s.follows.GetFollowing(userID)
	if err != nil {
		return nil, err
	}
	return s.annotate(users, requesterID)
}

func (s *SocialGraphService) annotate(users []models.User, requesterID uint) ([]models.FollowerInfo, error) {
	infos := make([]models.FollowerInfo, 0, len(users))
	for _, u := range users {
		isFollowing, err := s.follows.IsFollowing(requesterID, u.ID)
		if err != nil {
			return nil, err
		}
		info := models.FollowerInfo{ID: u.ID, Username: u.Username, IsFollowing: isFollowing}
		if u.Profile != nil {
			info.ProfilePicture = u.Profile.ProfilePicture
		}
		infos = append(infos, info)
	}
	return infos, nil
}
