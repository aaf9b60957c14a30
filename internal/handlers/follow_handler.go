package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph *services.SocialGraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.SocialGraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follows", h.FollowUser)
	g.DELETE("/follows/:id", h.UnfollowUser)
	g.GET("/followers/:id", h.GetFollowers)
	g.GET("/following/:id", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	follow, err := h.graph.Follow(userID, req.FollowingID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, follow)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.graph.Unfollow(userID, uint(targetID)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFollowers lists the followers of a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	followers, err := h.graph.Followers(uint(targetID), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, followers)
}

// GetFollowing lists the users a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	following, err := h.graph.Following(uint(targetID), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, following)
}
