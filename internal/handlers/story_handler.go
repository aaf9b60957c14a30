package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/services"
)

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	stories *services.StoryService
	users   repositories.UserRepository
	repo    repositories.StoryRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories *services.StoryService, users repositories.UserRepository, repo repositories.StoryRepository) *StoryHandler {
	return &StoryHandler{stories: stories, users: users, repo: repo}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.GET("/stories/user/:id", h.GetUserStories)
	g.POST("/stories/:id/view", h.MarkViewed)
	g.GET("/stories/:id/viewers", h.GetViewers)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory creates a story from a multipart form: media file plus an
// optional caption. Media kind is inferred from the file extension.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID := getUserIDFromContext(c)

	media, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing media file")
	}
	caption := c.FormValue("caption")

	story, err := h.stories.CreateStory(userID, caption, media)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.storyResponse(story, userID))
}

// GetStories returns active stories from the user and everyone they follow
func (h *StoryHandler) GetStories(c echo.Context) error {
	userID := getUserIDFromContext(c)

	stories, err := h.stories.GetFeed(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.storyResponses(stories, userID))
}

// GetUserStories returns a user's active stories if visible to the caller
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	stories, err := h.stories.GetUserStories(uint(ownerID), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.storyResponses(stories, userID))
}

// MarkViewed records that the caller has seen a story
func (h *StoryHandler) MarkViewed(c echo.Context) error {
	userID := getUserIDFromContext(c)
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	if err := h.stories.MarkViewed(uint(storyID), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"viewed": true})
}

// GetViewers lists who viewed an owned story
func (h *StoryHandler) GetViewers(c echo.Context) error {
	userID := getUserIDFromContext(c)
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	viewers, err := h.stories.GetViewers(uint(storyID), userID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]models.FollowerInfo, 0, len(viewers))
	for _, v := range viewers {
		info := models.FollowerInfo{ID: v.ID, Username: v.Username}
		if v.Profile != nil {
			info.ProfilePicture = v.Profile.ProfilePicture
		}
		resp = append(resp, info)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteStory deletes an owned story and its media
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	userID := getUserIDFromContext(c)
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	if err := h.stories.DeleteStory(uint(storyID), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StoryHandler) storyResponses(stories []models.Story, viewerID uint) []*models.StoryResponse {
	resp := make([]*models.StoryResponse, 0, len(stories))
	for i := range stories {
		resp = append(resp, h.storyResponse(&stories[i], viewerID))
	}
	return resp
}

func (h *StoryHandler) storyResponse(story *models.Story, viewerID uint) *models.StoryResponse {
	resp := &models.StoryResponse{
		ID:        story.ID,
		UserID:    story.UserID,
		Image:     story.Image,
		MediaType: story.MediaType,
		Caption:   story.Caption,
		Timestamp: story.CreatedAt,
		ExpiresAt: story.ExpiresAt,
	}
	if author, err := h.users.GetUserByID(story.UserID); err == nil {
		resp.Username = author.Username
		if author.Profile != nil {
			resp.UserProfilePicture = author.Profile.ProfilePicture
		}
	}
	if count, err := h.repo.GetViewCount(story.ID); err == nil {
		resp.ViewCount = count
	}
	if viewed, err := h.repo.HasViewed(story.ID, viewerID); err == nil {
		resp.Viewed = viewed
	}
	return resp
}
