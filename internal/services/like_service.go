package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// LikeService handles the idempotent like "vote" on posts.
type LikeService struct {
	likes    repositories.LikeRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	graph    *SocialGraphService
	notifier *Notifier
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likes repositories.LikeRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	graph *SocialGraphService,
	notifier *Notifier,
) *LikeService {
	return &LikeService{likes: likes, posts: posts, users: users, follows: follows, graph: graph, notifier: notifier}
}

// LikePost likes a post on behalf of userID. The post must be visible to the
// user; a second like of the same post fails with ErrAlreadyLiked, enforced
// by the unique (user, post) constraint so concurrent likes race safely.
func (s *LikeService) LikePost(postID, userID uint) (*models.Like, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	if err := s.graph.EnsureVisible(userID, post.UserID); err != nil {
		return nil, err
	}

	like := &models.Like{UserID: userID, PostID: postID}
	if err := s.likes.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyLiked
		}
		return nil, err
	}

	if actor, err := s.users.GetUserByID(userID); err == nil {
		s.notifier.Notify(post.UserID, userID, models.NotificationLike,
			actor.Username+" liked your post", &post.ID, nil)
	}
	return like, nil
}

// UnlikePost removes userID's like from a post
func (s *LikeService) UnlikePost(postID, userID uint) error {
	removed, err := s.likes.DeleteLike(postID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("like: %w", apperrors.ErrNotFound)
	}
	return nil
}

// GetPostLikes lists the users who liked a post, each annotated with whether
// the viewer follows them. Gated on post visibility.
func (s *LikeService) GetPostLikes(postID, viewerID uint) ([]models.FollowerInfo, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	if err := s.graph.EnsureVisible(viewerID, post.UserID); err != nil {
		return nil, err
	}

	likes, err := s.likes.GetLikesByPostID(postID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.FollowerInfo, 0, len(likes))
	for _, like := range likes {
		user, err := s.users.GetUserByID(like.UserID)
		if err != nil {
			continue
		}
		isFollowing, err := s.follows.IsFollowing(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		info := models.FollowerInfo{ID: user.ID, Username: user.Username, IsFollowing: isFollowing}
		if user.Profile != nil {
			info.ProfilePicture = user.Profile.ProfilePicture
		}
		infos = append(infos, info)
	}
	return infos, nil
}
