// services/idea_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type IdeaService struct {
	DB *gorm.DB
}

func NewIdeaService(db *gorm.DB) *IdeaService {
	return &IdeaService{DB: db}
}

var categoryTitle = cases.Title(language.English)

// NormalizeCategory maps a loosely cased category ("tech", "HEALTH") onto the
// canonical entry of the allowed set; empty string if it is not allowed.
func NormalizeCategory(raw string) string {
	normalized := categoryTitle.String(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range models.IdeaCategories {
		if c == normalized {
			return c
		}
	}
	return ""
}

type ideaRequest struct {
	StartupID        *string `json:"startup_id" validate:"omitempty,uuid"`
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description" validate:"required"`
	ImgURL           string  `json:"img_url"`
	Category         string  `json:"category" validate:"required"`
	CustomCategory   string  `json:"custom_category"`
	Budget           float64 `json:"budget" validate:"gte=0"`
	Timeline         string  `json:"timeline"`
	ExpectedOutcomes string  `json:"expected_outcomes"`
	IsIdea           *bool   `json:"is_idea"`
}

// validateIdeaShape enforces the idea-vs-plan rules: ideas need a startup,
// investment plans must not reference one, and "Other" requires a custom label.
func validateIdeaShape(isIdea bool, startupID *string, category, customCategory string) error {
	if isIdea && startupID == nil {
		return errors.New("startup_id is required when posting an idea")
	}
	if !isIdea && startupID != nil {
		return errors.New("an investment plan should not have a startup_id")
	}
	if category == "Other" && customCategory == "" {
		return errors.New("custom_category is required when category is 'Other'")
	}
	return nil
}

// CreateIdea posts a new idea (or investment plan) in pending review.
func (s *IdeaService) CreateIdea(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req ideaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	category := NormalizeCategory(req.Category)
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown category"})
	}

	isIdea := true
	if req.IsIdea != nil {
		isIdea = *req.IsIdea
	}
	if err := validateIdeaShape(isIdea, req.StartupID, category, req.CustomCategory); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	idea := &models.Idea{
		ID:               uuid.NewString(),
		StartupID:        req.StartupID,
		Title:            req.Title,
		Description:      req.Description,
		ImgURL:           req.ImgURL,
		Category:         category,
		CustomCategory:   req.CustomCategory,
		Budget:           req.Budget,
		Timeline:         req.Timeline,
		ExpectedOutcomes: req.ExpectedOutcomes,
		CurrentVersion:   1,
		IsIdea:           isIdea,
		Status:           models.IdeaStatusPendingReview,
		CreatedBy:        userID,
		UpdatedBy:        userID,
	}
	if err := s.DB.Create(idea).Error; err != nil {
		log.Printf("[IdeaService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create idea"})
	}
	return c.Status(fiber.StatusCreated).JSON(idea)
}

// GetAllIdeas lists ideas; ?status= and ?startup_id= filter.
func (s *IdeaService) GetAllIdeas(c *fiber.Ctx) error {
	q := s.DB.Model(&models.Idea{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if startupID := c.Query("startup_id"); startupID != "" {
		q = q.Where("startup_id = ?", startupID)
	}

	var ideas []models.Idea
	if err := q.Order("created_at DESC").Find(&ideas).Error; err != nil {
		log.Printf("[IdeaService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch ideas"})
	}
	return c.JSON(ideas)
}

// GetIdeaByID returns one idea.
func (s *IdeaService) GetIdeaByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid idea ID"})
	}

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(idea)
}

// UpdateIdea applies edits, bumps the version and resets the idea to pending
// review so a mentor looks at the new revision.
func (s *IdeaService) UpdateIdea(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if idea.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to update this idea"})
	}

	var req struct {
		Title            *string  `json:"title"`
		Description      *string  `json:"description"`
		ImgURL           *string  `json:"img_url"`
		Category         *string  `json:"category"`
		CustomCategory   *string  `json:"custom_category"`
		Budget           *float64 `json:"budget"`
		Timeline         *string  `json:"timeline"`
		ExpectedOutcomes *string  `json:"expected_outcomes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != nil {
		idea.Title = *req.Title
	}
	if req.Description != nil {
		idea.Description = *req.Description
	}
	if req.ImgURL != nil {
		idea.ImgURL = *req.ImgURL
	}
	if req.Category != nil {
		category := NormalizeCategory(*req.Category)
		if category == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown category"})
		}
		idea.Category = category
	}
	if req.CustomCategory != nil {
		idea.CustomCategory = *req.CustomCategory
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Budget must be non-negative"})
		}
		idea.Budget = *req.Budget
	}
	if req.Timeline != nil {
		idea.Timeline = *req.Timeline
	}
	if req.ExpectedOutcomes != nil {
		idea.ExpectedOutcomes = *req.ExpectedOutcomes
	}
	if err := validateIdeaShape(idea.IsIdea, idea.StartupID, idea.Category, idea.CustomCategory); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	idea.CurrentVersion++
	idea.Status = models.IdeaStatusPendingReview
	idea.UpdatedBy = userID

	if err := s.DB.Save(&idea).Error; err != nil {
		log.Printf("[IdeaService] update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update idea"})
	}
	return c.JSON(idea)
}

// DeleteIdea archives an idea (soft delete).
func (s *IdeaService) DeleteIdea(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if idea.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to delete this idea"})
	}

	idea.Status = models.IdeaStatusArchived
	idea.UpdatedBy = userID
	if err := s.DB.Save(&idea).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to archive idea"})
	}
	if err := s.DB.Delete(&idea).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to archive idea"})
	}
	return c.JSON(fiber.Map{"message": "Idea archived"})
}

// SetMentorDecision records a mentor's approve/reject verdict.
func (s *IdeaService) SetMentorDecision(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var req struct {
		Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Decision must be 'approved' or 'rejected'"})
	}

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	idea.Status = models.IdeaStatus(req.Decision)
	idea.UpdatedBy = userID
	if err := s.DB.Save(&idea).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record decision"})
	}
	return c.JSON(idea)
}
