package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// CommentService enforces the comment-tree rules: one level of nesting,
// at most one reply per user per parent, and follow-gated visibility on the
// underlying post.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	graph    *SocialGraphService
	notifier *Notifier
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	graph *SocialGraphService,
	notifier *Notifier,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, graph: graph, notifier: notifier}
}

// CreateComment adds a comment or reply to a post. Replies must point at a
// top-level comment of the same post, and a user gets at most one reply per
// parent. On success the parent-comment author (for replies) or the post
// owner is notified, never the commenter themselves.
func (s *CommentService) CreateComment(postID, userID uint, text string, parentID *uint) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	if err := s.graph.EnsureVisible(userID, post.UserID); err != nil {
		return nil, err
	}

	var parent *models.Comment
	if parentID != nil {
		parent, err = s.comments.GetCommentByID(*parentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", apperrors.ErrValidation)
		}
		if parent.IsReply() {
			return nil, fmt.Errorf("%w: cannot reply to a reply", apperrors.ErrValidation)
		}
		replied, err := s.comments.HasUserReplied(*parentID, userID)
		if err != nil {
			return nil, err
		}
		if replied {
			return nil, apperrors.ErrDuplicateReply
		}
	}

	comment := &models.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Text:     text,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		// Two simultaneous replies to the same parent: the unique index lets
		// exactly one through.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateReply
		}
		return nil, err
	}

	s.notifyAbout(comment, post, parent)
	return comment, nil
}

func (s *CommentService) notifyAbout(comment *models.Comment, post *models.Post, parent *models.Comment) {
	actor, err := s.users.GetUserByID(comment.UserID)
	if err != nil {
		return
	}

	recipientID := post.UserID
	notificationType := models.NotificationComment
	message := actor.Username + " commented on your post"
	if parent != nil {
		recipientID = parent.UserID
		notificationType = models.NotificationReply
		message = actor.Username + " replied to your comment"
	}
	s.notifier.Notify(recipientID, comment.UserID, notificationType, message, &post.ID, &comment.ID)
}

// ListComments returns the top-level comments of a post in creation order,
// replies nested under their parents, gated on post visibility.
func (s *CommentService) ListComments(postID, viewerID uint) ([]models.Comment, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	if err := s.graph.EnsureVisible(viewerID, post.UserID); err != nil {
		return nil, err
	}
	return s.comments.GetTopLevelByPostID(postID)
}

// DeleteComment removes a comment. Only the author may delete, and deleting
// a top-level comment takes its replies with it.
func (s *CommentService) DeleteComment(commentID, userID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return apperrors.ErrForbidden
	}
	return s.comments.DeleteCommentWithReplies(commentID)
}
