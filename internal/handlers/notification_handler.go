package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/repositories"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread", h.GetUnread)
	g.GET("/notifications/unread/count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkRead)
	g.PUT("/notifications/read-all", h.MarkAllRead)
	g.DELETE("/notifications/clear-all", h.ClearAll)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns a page of the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	offset, limit := pageParams(c, 50)

	notifications, err := h.notifications.GetByRecipientID(userID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.notificationResponses(notifications))
}

// GetUnread returns the caller's unread notifications
func (h *NotificationHandler) GetUnread(c echo.Context) error {
	userID := getUserIDFromContext(c)

	notifications, err := h.notifications.GetUnreadByRecipientID(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.notificationResponses(notifications))
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := getUserIDFromContext(c)

	count, err := h.notifications.GetUnreadCount(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.ownedNotification(uint(id), userID)
	if err != nil {
		return httpError(err)
	}
	if err := h.notifications.MarkAsRead(notification.ID); err != nil {
		return httpError(err)
	}
	notification.IsRead = true
	return c.JSON(http.StatusOK, h.notificationResponse(notification))
}

// MarkAllRead marks every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.notifications.MarkAllAsRead(userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification deletes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID := getUserIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.ownedNotification(uint(id), userID)
	if err != nil {
		return httpError(err)
	}
	if err := h.notifications.DeleteNotification(notification.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearAll deletes every notification of the caller
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if err := h.notifications.DeleteAllForRecipient(userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) ownedNotification(id, userID uint) (*models.Notification, error) {
	notification, err := h.notifications.GetNotificationByID(id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != userID {
		return nil, apperrors.ErrForbidden
	}
	return notification, nil
}

func (h *NotificationHandler) notificationResponses(notifications []models.Notification) []*models.NotificationResponse {
	resp := make([]*models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp = append(resp, h.notificationResponse(&notifications[i]))
	}
	return resp
}

func (h *NotificationHandler) notificationResponse(n *models.Notification) *models.NotificationResponse {
	resp := &models.NotificationResponse{
		ID:               n.ID,
		RecipientID:      n.RecipientID,
		SenderID:         n.SenderID,
		NotificationType: n.NotificationType,
		Message:          n.Message,
		PostID:           n.PostID,
		CommentID:        n.CommentID,
		IsRead:           n.IsRead,
		Timestamp:        n.CreatedAt,
	}
	if n.SenderID != nil {
		if sender, err := h.users.GetUserByID(*n.SenderID); err == nil {
			resp.SenderUsername = sender.Username
			if sender.Profile != nil {
				resp.SenderProfilePicture = sender.Profile.ProfilePicture
			}
		}
	}
	return resp
}
