package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/services"
)

// LikeHandler handles like HTTP requests
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes", h.LikePost)
	g.DELETE("/likes/post/:id", h.UnlikePost)
	g.GET("/likes/post/:id", h.GetPostLikes)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	like, err := h.likes.LikePost(req.PostID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikePost removes a like from a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if err := h.likes.UnlikePost(uint(postID), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPostLikes lists the users who liked a post
func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	likers, err := h.likes.GetPostLikes(uint(postID), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, likers)
}
