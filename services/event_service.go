// services/event_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"
	"time"

	"startup-funding-system/models"
	"startup-funding-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

func validEventType(t string) bool {
	for _, allowed := range models.EventTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// CreateEvent registers a new mentor event. Multipart form: title,
// description, event_type, date (RFC 3339), link, optional banner file.
func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	organizerID := c.Locals("user_id").(string)

	title := c.FormValue("title")
	description := c.FormValue("description")
	eventType := c.FormValue("event_type")
	link := c.FormValue("link")
	if title == "" || description == "" || link == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, description and link are required"})
	}
	if !validEventType(eventType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown event type"})
	}

	date, err := time.Parse(time.RFC3339, c.FormValue("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be RFC 3339"})
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Title:       title,
		Description: description,
		EventType:   eventType,
		Date:        date,
		Link:        link,
	}

	if banner, err := c.FormFile("banner"); err == nil && banner.Size > 0 {
		ext := filepath.Ext(banner.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "event-banners/" + uuid.NewString() + ext
		url, err := utils.UploadFile(banner, key)
		if err != nil {
			log.Printf("[EventService] banner upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload banner"})
		}
		event.BannerImage = url
	}

	if err := s.DB.Create(event).Error; err != nil {
		log.Printf("[EventService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event"})
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetUpcomingEvents lists future events, soonest first.
func (s *EventService) GetUpcomingEvents(c *fiber.Ctx) error {
	var events []models.Event
	if err := s.DB.Where("date > ?", time.Now()).Order("date ASC").Find(&events).Error; err != nil {
		log.Printf("[EventService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch events"})
	}
	return c.JSON(events)
}

// GetEventByID returns one event with its attendees.
func (s *EventService) GetEventByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var event models.Event
	if err := s.DB.Preload("Attendees").First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(event)
}

// RSVPToEvent registers the caller as an attendee; double registration is
// rejected by the unique (event_id, user_id) index.
func (s *EventService) RSVPToEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var already int64
	if err := s.DB.Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", id, userID).
		Count(&already).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if already > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You have already registered"})
	}

	attendee := models.EventAttendee{ID: uuid.NewString(), EventID: id, UserID: userID}
	if err := s.DB.Create(&attendee).Error; err != nil {
		log.Printf("[EventService] RSVP failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register"})
	}

	var count int64
	if err := s.DB.Model(&models.EventAttendee{}).Where("event_id = ?", id).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{"message": "Registered", "attendees": count})
}

// UpdateEvent applies a partial update; organizer or admin only.
func (s *EventService) UpdateEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if event.OrganizerID != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to update this event"})
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		EventType   *string    `json:"event_type"`
		Date        *time.Time `json:"date"`
		Link        *string    `json:"link"`
		BannerImage *string    `json:"banner_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		if !validEventType(*req.EventType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown event type"})
		}
		event.EventType = *req.EventType
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Link != nil {
		event.Link = *req.Link
	}
	if req.BannerImage != nil {
		event.BannerImage = *req.BannerImage
	}

	if err := s.DB.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event"})
	}
	return c.JSON(event)
}

// DeleteEvent removes an event; organizer or admin only.
func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if event.OrganizerID != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to delete this event"})
	}

	if err := s.DB.Delete(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete event"})
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}
