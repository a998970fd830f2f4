package services

import (
	"errors"
	"fmt"

	"roomsense-http-service/config"
	"roomsense-http-service/models"

	"gorm.io/gorm"
)

// ErrNotificationNotFound marks a lookup of a missing notification
var ErrNotificationNotFound = errors.New("notification not found")

// InterfaceNotificationService defines the notification service interface
type InterfaceNotificationService interface {
	NotifyActionCompleted(tx *gorm.DB, action *models.Action, room *models.Room) error
	GetNotificationsForUser(userID uint) ([]models.Notification, error)
	MarkRead(id uint, userID uint) (*models.Notification, error)
}

// NotificationService creates and serves manager notifications
type NotificationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, cfg *config.Config) InterfaceNotificationService {
	return &NotificationService{
		DB:     db,
		Config: cfg,
	}
}

// NotifyActionCompleted creates exactly one notice for a completed action,
// addressed to the first manager. Runs on the caller's transaction so the
// notice commits together with the action. A deployment without any
// manager gets no notification, which is not an error.
func (s *NotificationService) NotifyActionCompleted(tx *gorm.DB, action *models.Action, room *models.Room) error {
	var manager models.User
	err := tx.Where("role = ?", models.RoleManager).Order("id").First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	notification := models.Notification{
		Message: fmt.Sprintf("%s completed for room %s", action.Kind.Label(), room.Name),
		UserID:  manager.ID,
		RoomID:  room.ID,
	}
	return tx.Create(&notification).Error
}

// GetNotificationsForUser returns the notifications of a user, newest first
func (s *NotificationService) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags a notification of the given user as read
func (s *NotificationService) MarkRead(id uint, userID uint) (*models.Notification, error) {
	var notification models.Notification
	err := s.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	notification.Read = true
	if err := s.DB.Save(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}
