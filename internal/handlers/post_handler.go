package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/services"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	posts *services.PostService
	users repositories.UserRepository
	repo  repositories.PostRepository
	likes repositories.LikeRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, users repositories.UserRepository, repo repositories.PostRepository, likes repositories.LikeRepository) *PostHandler {
	return &PostHandler{posts: posts, users: users, repo: repo, likes: likes}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetFeed)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/user/:id", h.GetUserPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post from a multipart form: image file, optional
// caption, optional comma-separated tags.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)

	image, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing image file")
	}
	caption := c.FormValue("caption")

	var tagNames []string
	if tags := c.FormValue("tags"); tags != "" {
		tagNames = strings.Split(tags, ",")
	}

	post, err := h.posts.CreatePost(userID, caption, image, tagNames)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.postResponse(post, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetFeed returns posts from the authenticated user and everyone they follow
func (h *PostHandler) GetFeed(c echo.Context) error {
	userID := getUserIDFromContext(c)
	offset, limit := pageParams(c, 20)

	posts, err := h.posts.GetFeed(userID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.postResponses(posts, userID))
}

// GetPost returns a single post if visible to the authenticated user
func (h *PostHandler) GetPost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.posts.GetPost(uint(postID), userID)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.postResponse(post, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUserPosts returns a user's posts if visible to the authenticated user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID := getUserIDFromContext(c)
	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	offset, limit := pageParams(c, 20)

	posts, err := h.posts.GetUserPosts(uint(ownerID), userID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.postResponses(posts, userID))
}

// UpdatePost updates the caption of an owned post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(uint(postID), userID, req.Caption)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.postResponse(post, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeletePost deletes an owned post together with its media, comments and likes
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if err := h.posts.DeletePost(uint(postID), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) postResponses(posts []models.Post, viewerID uint) []*models.PostResponse {
	resp := make([]*models.PostResponse, 0, len(posts))
	for i := range posts {
		r, err := h.postResponse(&posts[i], viewerID)
		if err != nil {
			continue
		}
		resp = append(resp, r)
	}
	return resp
}

func (h *PostHandler) postResponse(post *models.Post, viewerID uint) (*models.PostResponse, error) {
	resp := &models.PostResponse{
		ID:          post.ID,
		UserID:      post.UserID,
		Caption:     post.Caption,
		Image:       post.Image,
		IsPublished: post.IsPublished,
		Timestamp:   post.CreatedAt,
		Tags:        make([]string, 0, len(post.Tags)),
	}
	for _, tag := range post.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}

	if author, err := h.users.GetUserByID(post.UserID); err == nil {
		resp.Username = author.Username
		if author.Profile != nil {
			resp.UserProfilePicture = author.Profile.ProfilePicture
		}
	}

	var err error
	if resp.LikeCount, err = h.repo.GetLikeCount(post.ID); err != nil {
		return nil, err
	}
	if resp.CommentCount, err = h.repo.GetCommentCount(post.ID); err != nil {
		return nil, err
	}
	if resp.IsLiked, err = h.likes.HasUserLikedPost(post.ID, viewerID); err != nil {
		return nil, err
	}
	return resp, nil
}
