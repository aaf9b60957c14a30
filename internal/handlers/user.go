package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
	"github.com/photogram/backend/internal/services"
	"github.com/photogram/backend/pkg/storage"
)

const avatarsFolder = "avatars"

// UserHandler handles user and profile HTTP requests
type UserHandler struct {
	users       repositories.UserRepository
	auth        *services.AuthService
	blob        storage.BlobStore
	maxFileSize int64
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repositories.UserRepository, auth *services.AuthService, blob storage.BlobStore, maxFileSize int64) *UserHandler {
	return &UserHandler{users: users, auth: auth, blob: blob, maxFileSize: maxFileSize}
}

// RegisterUserRoutes registers user and profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.Me)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/username/:username", h.GetUserByUsername)
	g.GET("/users/search/:query", h.SearchUsers)
	g.PUT("/users/me/profile", h.UpdateProfile)
	g.PUT("/users/me/profile/picture", h.UploadProfilePicture)
}

// Me returns the authenticated user with profile and counters
func (h *UserHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		return httpError(err)
	}
	resp, err := h.auth.BuildUserResponse(user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListUsers returns a page of users
func (h *UserHandler) ListUsers(c echo.Context) error {
	offset, limit := pageParams(c, 50)
	users, err := h.users.ListUsers(offset, limit)
	if err != nil {
		return httpError(err)
	}

	resp := make([]*models.UserResponse, 0, len(users))
	for i := range users {
		r, err := h.auth.BuildUserResponse(&users[i])
		if err != nil {
			return httpError(err)
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser returns a user by ID with profile and counters
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.users.GetUserByID(uint(id))
	if err != nil {
		return httpError(err)
	}
	resp, err := h.auth.BuildUserResponse(user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUserByUsername returns a user by exact username with profile and counters
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	user, err := h.users.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	resp, err := h.auth.BuildUserResponse(user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchUsers returns users whose username contains the query
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.Param("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}
	offset, limit := pageParams(c, 20)

	users, err := h.users.SearchByUsername(query, offset, limit)
	if err != nil {
		return httpError(err)
	}

	resp := make([]*models.UserResponse, 0, len(users))
	for i := range users {
		r, err := h.auth.BuildUserResponse(&users[i])
		if err != nil {
			return httpError(err)
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.users.GetProfileByUserID(userID)
	if err != nil {
		return httpError(err)
	}
	profile.Bio = req.Bio
	profile.Website = req.Website
	profile.Location = req.Location
	if err := h.users.UpdateProfile(profile); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadProfilePicture stores a new profile picture and deletes the old one
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	userID := getUserIDFromContext(c)

	file, err := c.FormFile("picture")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing picture file")
	}

	filename, err := h.blob.Store(file, storage.ImageExtensions, h.maxFileSize, avatarsFolder)
	if err != nil {
		return httpError(err)
	}

	profile, err := h.users.GetProfileByUserID(userID)
	if err != nil {
		return httpError(err)
	}
	old := profile.ProfilePicture
	profile.ProfilePicture = filename
	if err := h.users.UpdateProfile(profile); err != nil {
		return httpError(err)
	}
	if old != "" {
		_ = h.blob.Delete(old, avatarsFolder)
	}
	return c.JSON(http.StatusOK, profile)
}

// pageParams reads offset/limit query parameters with a default page size.
func pageParams(c echo.Context, defaultLimit int) (int, int) {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	return offset, limit
}
