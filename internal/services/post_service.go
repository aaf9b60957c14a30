package services

import (
	"fmt"
	"mime/multipart"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/pkg/storage"
)

const postsFolder = "posts"

// PostService handles post lifecycle and the follow-gated reads over posts.
type PostService struct {
	posts       repositories.PostRepository
	follows     repositories.FollowRepository
	graph       *SocialGraphService
	blob        storage.BlobStore
	maxFileSize int64
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, follows repositories.FollowRepository, graph *SocialGraphService, blob storage.BlobStore, maxFileSize int64) *PostService {
	return &PostService{posts: posts, follows: follows, graph: graph, blob: blob, maxFileSize: maxFileSize}
}

// CreatePost stores the uploaded image and creates the post with its tags.
func (s *PostService) CreatePost(userID uint, caption string, image *multipart.FileHeader, tagNames []string) (*models.Post, error) {
	filename, err := s.blob.Store(image, storage.ImageExtensions, s.maxFileSize, postsFolder)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      userID,
		Caption:     caption,
		Image:       filename,
		IsPublished: true,
	}
	if err := s.posts.CreatePost(post, tagNames); err != nil {
		// Keep the blob store consistent if the insert failed.
		_ = s.blob.Delete(filename, postsFolder)
		return nil, err
	}
	return post, nil
}

// GetFeed returns published posts from the user and everyone they follow,
// newest first.
func (s *PostService) GetFeed(userID uint, offset, limit int) ([]models.Post, error) {
	followingIDs, err := s.follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.posts.GetFeed(append(followingIDs, userID), offset, limit)
}

// GetPost returns a single post, gated on visibility.
func (s *PostService) GetPost(postID, viewerID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if err := s.graph.EnsureVisible(viewerID, post.UserID); err != nil {
		return nil, err
	}
	return post, nil
}

// GetUserPosts returns a user's published posts, gated on visibility.
func (s *PostService) GetUserPosts(ownerID, viewerID uint, offset, limit int) ([]models.Post, error) {
	if err := s.graph.EnsureVisible(viewerID, ownerID); err != nil {
		return nil, err
	}
	return s.posts.GetPostsByUserID(ownerID, offset, limit)
}

// UpdatePost updates the caption of a post owned by userID
func (s *PostService) UpdatePost(postID, userID uint, caption string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	post.Caption = caption
	if err := s.posts.UpdatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post owned by userID, media first, then the row with
// its comments and likes.
func (s *PostService) DeletePost(postID, userID uint) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := s.blob.Delete(post.Image, postsFolder); err != nil {
		return fmt.Errorf("deleting post media: %w", err)
	}
	return s.posts.DeletePost(postID)
}
