// services/startup_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"startup-funding-system/models"
	"startup-funding-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type StartupService struct {
	DB *gorm.DB
}

func NewStartupService(db *gorm.DB) *StartupService {
	return &StartupService{DB: db}
}

// uniqueSlug derives a URL-safe slug from the startup name, appending a
// numeric suffix while the candidate collides with an existing row.
func (s *StartupService) uniqueSlug(name string) (string, error) {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.DB.Model(&models.Startup{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateStartup registers a new venture for the caller. The optional
// br_document multipart file (business registration) goes to object storage.
func (s *StartupService) CreateStartup(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	name := c.FormValue("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	startupSlug, err := s.uniqueSlug(name)
	if err != nil {
		log.Printf("[StartupService] slug lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create startup"})
	}

	startup := &models.Startup{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        startupSlug,
		Description: c.FormValue("description"),
		UserID:      userID,
		Status:      models.StartupStatusPending,
	}

	if brFile, err := c.FormFile("br_document"); err == nil && brFile.Size > 0 {
		ext := filepath.Ext(brFile.Filename)
		if ext == "" {
			ext = ".pdf"
		}
		key := "br-docs/" + uuid.NewString() + ext
		url, err := utils.UploadFile(brFile, key)
		if err != nil {
			log.Printf("[StartupService] BR document upload failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload BR document"})
		}
		startup.BRDocumentURL = url
	}

	if err := s.DB.Create(startup).Error; err != nil {
		log.Printf("[StartupService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create startup"})
	}
	return c.Status(fiber.StatusCreated).JSON(startup)
}

// GetAllStartups lists startups; ?status= filters, ?mine=true restricts to
// the caller's ventures.
func (s *StartupService) GetAllStartups(c *fiber.Ctx) error {
	q := s.DB.Model(&models.Startup{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if c.Query("mine") == "true" {
		q = q.Where("user_id = ?", c.Locals("user_id").(string))
	}

	var startups []models.Startup
	if err := q.Order("created_at DESC").Find(&startups).Error; err != nil {
		log.Printf("[StartupService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch startups"})
	}
	return c.JSON(startups)
}

// GetStartupByID returns one startup by id or slug.
func (s *StartupService) GetStartupByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var startup models.Startup
	// id is a uuid column; cast so slug lookups do not trip the uuid parser.
	err := s.DB.Where("id::text = ? OR slug = ?", id, id).First(&startup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Startup not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(startup)
}

// UpdateStartup applies a partial update; only the owner or an admin may
// update, and any edit moves the startup back to pending review.
func (s *StartupService) UpdateStartup(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var startup models.Startup
	if err := s.DB.First(&startup, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Startup not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if startup.UserID != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to update this startup"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil && *req.Name != startup.Name {
		startupSlug, err := s.uniqueSlug(*req.Name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update startup"})
		}
		startup.Name = *req.Name
		startup.Slug = startupSlug
	}
	if req.Description != nil {
		startup.Description = *req.Description
	}
	startup.Status = models.StartupStatusPending

	if err := s.DB.Save(&startup).Error; err != nil {
		log.Printf("[StartupService] update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update startup"})
	}
	return c.JSON(startup)
}

// SetStartupStatus is the admin decision endpoint: Approved or NotApproved.
func (s *StartupService) SetStartupStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Status models.StartupStatus `json:"status" validate:"required,oneof=Approved NotApproved pending"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be Approved, NotApproved or pending"})
	}

	var startup models.Startup
	if err := s.DB.First(&startup, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Startup not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	startup.Status = req.Status
	if err := s.DB.Save(&startup).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}
	return c.JSON(startup)
}

// DeleteStartup soft-deletes a startup; owner or admin only.
func (s *StartupService) DeleteStartup(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var startup models.Startup
	if err := s.DB.First(&startup, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Startup not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if startup.UserID != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to delete this startup"})
	}

	if err := s.DB.Delete(&startup).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete startup"})
	}
	return c.JSON(fiber.Map{"message": "Startup deleted"})
}

// HasRole reports whether the authenticated principal carries the role.
func HasRole(c *fiber.Ctx, role string) bool {
	roles, _ := c.Locals("user_roles").([]string)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
