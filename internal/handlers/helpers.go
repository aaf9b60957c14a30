package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user ID set by the JWT
// middleware; 0 means unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// httpError maps a service-layer error kind to the matching HTTP error.
func httpError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyFollowing),
		errors.Is(err, apperrors.ErrAlreadyLiked),
		errors.Is(err, apperrors.ErrDuplicateReply),
		errors.Is(err, apperrors.ErrAlreadyRegistered):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrSelfFollow),
		errors.Is(err, apperrors.ErrNotFollowing),
		errors.Is(err, apperrors.ErrInvalidFileType),
		errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrInactiveUser):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
