package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/services"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	comments *services.CommentService
	users    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService, users repositories.UserRepository) *CommentHandler {
	return &CommentHandler{comments: comments, users: users}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/comments/post/:id", h.GetPostComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment or a reply on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(req.PostID, userID, req.Text, req.ParentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.commentResponse(comment))
}

// GetPostComments returns the top-level comments of a post with their replies
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comments, err := h.comments.ListComments(uint(postID), userID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]*models.CommentResponse, 0, len(comments))
	for i := range comments {
		top := h.commentResponse(&comments[i])
		top.Replies = make([]models.CommentResponse, 0, len(comments[i].Replies))
		for j := range comments[i].Replies {
			top.Replies = append(top.Replies, *h.commentResponse(&comments[i].Replies[j]))
		}
		top.ReplyCount = len(top.Replies)
		resp = append(resp, top)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteComment deletes an authored comment, replies included
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.comments.DeleteComment(uint(commentID), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) commentResponse(comment *models.Comment) *models.CommentResponse {
	resp := &models.CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Text:      comment.Text,
		Timestamp: comment.CreatedAt,
	}
	if author, err := h.users.GetUserByID(comment.UserID); err == nil {
		resp.Username = author.Username
		if author.Profile != nil {
			resp.UserProfilePicture = author.Profile.ProfilePicture
		}
	}
	return resp
}
