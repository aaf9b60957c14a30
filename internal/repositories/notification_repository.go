package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/photogram/backend/internal/apperrors"
	"github.com/photogram/backend/internal/models"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint, offset, limit int) ([]models.Notification, error)
	GetUnreadByRecipientID(recipientID uint) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteNotification(id uint) error
	DeleteAllForRecipient(recipientID uint) error
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadByRecipientID(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) DeleteNotification(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *postgresNotificationRepository) DeleteAllForRecipient(recipientID uint) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}

// DeleteReadOlderThan removes read notifications created before the cutoff
// and returns how many rows went away. Safe to run repeatedly; a second run
// over the same data deletes nothing.
func (r *postgresNotificationRepository) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
