// services/notification_service.go
package services

import (
	"errors"
	"log"
	"strconv"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// NotifyParams describes one in-app notification to store. Email fan-out is
// owned by an external delivery service and not handled here.
type NotifyParams struct {
	RecipientUserID string
	Type            string
	Title           string
	Message         string
	RelatedID       *string
	ActionURL       string
	StartupID       *string
	CreatedBy       *string
}

// Notify stores an in-app notification for the recipient.
func (s *NotificationService) Notify(p NotifyParams) (*models.Notification, error) {
	n := models.Notification{
		ID:              uuid.NewString(),
		RecipientUserID: p.RecipientUserID,
		StartupID:       p.StartupID,
		Type:            p.Type,
		Title:           p.Title,
		Message:         p.Message,
		RelatedID:       p.RelatedID,
		ActionURL:       p.ActionURL,
		IsRead:          false,
		CreatedBy:       p.CreatedBy,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// GetMyNotifications lists the caller's notifications, newest first.
// Query: page (default 1), limit (default 20, max 50), unreadOnly.
func (s *NotificationService) GetMyNotifications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	unreadOnly := c.Query("unreadOnly") == "true"

	q := s.DB.Model(&models.Notification{}).Where("recipient_user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[NotificationService] count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		log.Printf("[NotificationService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var unreadCount int64
	if err := s.DB.Model(&models.Notification{}).
		Where("recipient_user_id = ? AND is_read = ?", userID, false).
		Count(&unreadCount).Error; err != nil {
		log.Printf("[NotificationService] unread count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"items":       items,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"unreadCount": unreadCount,
	})
}

// GetUnreadCount returns just the unread counter for polling clients.
func (s *NotificationService) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var count int64
	if err := s.DB.Model(&models.Notification{}).
		Where("recipient_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count notifications"})
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Marked as read"})
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *NotificationService) MarkAllRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := s.DB.Model(&models.Notification{}).
		Where("recipient_user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notifications"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// DeleteNotification soft-deletes one of the caller's notifications.
func (s *NotificationService) DeleteNotification(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	result := s.DB.Where("id = ? AND recipient_user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

// CreateNotification lets an admin push a notification to any user.
func (s *NotificationService) CreateNotification(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	var req struct {
		RecipientUserID string  `json:"recipient_user_id" validate:"required,uuid"`
		Type            string  `json:"type" validate:"required"`
		Title           string  `json:"title" validate:"required"`
		Message         string  `json:"message" validate:"required"`
		ActionURL       string  `json:"action_url"`
		StartupID       *string `json:"startup_id" validate:"omitempty,uuid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	n, err := s.Notify(NotifyParams{
		RecipientUserID: req.RecipientUserID,
		Type:            req.Type,
		Title:           req.Title,
		Message:         req.Message,
		ActionURL:       req.ActionURL,
		StartupID:       req.StartupID,
		CreatedBy:       &adminID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient user not found"})
		}
		log.Printf("[NotificationService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create notification"})
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}
