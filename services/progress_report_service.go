// services/progress_report_service.go
package services

import (
	"errors"
	"log"
	"time"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressReportService stores founders' weekly reports on their ideas and
// builds the startup-owner dashboard from the latest report per idea.
type ProgressReportService struct {
	DB *gorm.DB
}

func NewProgressReportService(db *gorm.DB) *ProgressReportService {
	return &ProgressReportService{DB: db}
}

// MilestoneProgress is the completed share of a report's milestones as a
// rounded percentage; zero when there are none.
func MilestoneProgress(milestones []models.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Status == models.MilestoneCompleted {
			completed++
		}
	}
	return int(float64(completed)/float64(len(milestones))*100 + 0.5)
}

type milestoneRequest struct {
	Name           string     `json:"name" validate:"required"`
	Status         string     `json:"status" validate:"omitempty,oneof=not_started in_progress completed"`
	CompletionDate *time.Time `json:"completion_date"`
}

type reportRequest struct {
	IdeaID         string             `json:"idea_id" validate:"required,uuid"`
	MentorID       string             `json:"mentor_id" validate:"required,uuid"`
	WeekNumber     int                `json:"week_number" validate:"required,gt=0"`
	ReportDate     *time.Time         `json:"report_date"`
	TasksCompleted string             `json:"tasks_completed"`
	Challenges     string             `json:"challenges"`
	NextGoals      string             `json:"next_goals"`
	OverallStatus  string             `json:"overall_status" validate:"omitempty,oneof=on_track delayed at_risk"`
	Milestones     []milestoneRequest `json:"milestones" validate:"dive"`
}

func buildMilestones(reportID string, in []milestoneRequest) []models.Milestone {
	milestones := make([]models.Milestone, 0, len(in))
	for _, m := range in {
		status := models.MilestoneStatus(m.Status)
		if status == "" {
			status = models.MilestoneNotStarted
		}
		milestones = append(milestones, models.Milestone{
			ID:             uuid.NewString(),
			ReportID:       reportID,
			Name:           m.Name,
			Status:         status,
			CompletionDate: m.CompletionDate,
		})
	}
	return milestones
}

// CreateReport files a weekly report. Only the idea's creator may report on it.
func (s *ProgressReportService) CreateReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req reportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "idea_id, mentor_id and week_number are required"})
	}

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", req.IdeaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if idea.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to report on this idea"})
	}
	if idea.StartupID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Progress reports apply to startup ideas only"})
	}

	reportDate := time.Now()
	if req.ReportDate != nil {
		reportDate = *req.ReportDate
	}
	overall := models.ReportOverallStatus(req.OverallStatus)
	if overall == "" {
		overall = models.ReportStatusOnTrack
	}

	report := &models.ProgressReport{
		ID:             uuid.NewString(),
		IdeaID:         idea.ID,
		StartupID:      *idea.StartupID,
		MentorID:       req.MentorID,
		WeekNumber:     req.WeekNumber,
		ReportDate:     reportDate,
		TasksCompleted: req.TasksCompleted,
		Challenges:     req.Challenges,
		NextGoals:      req.NextGoals,
		OverallStatus:  overall,
		CreatedBy:      userID,
		UpdatedBy:      userID,
	}
	report.Milestones = buildMilestones(report.ID, req.Milestones)

	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("[ProgressReportService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create report"})
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReportsByIdea lists an idea's reports, newest week first.
func (s *ProgressReportService) GetReportsByIdea(c *fiber.Ctx) error {
	ideaID := c.Params("ideaId")
	if _, err := uuid.Parse(ideaID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid idea ID"})
	}

	var reports []models.ProgressReport
	if err := s.DB.Preload("Milestones").
		Where("idea_id = ?", ideaID).
		Order("week_number DESC").
		Find(&reports).Error; err != nil {
		log.Printf("[ProgressReportService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reports"})
	}
	return c.JSON(reports)
}

// GetReportByID returns one report with its milestones.
func (s *ProgressReportService) GetReportByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	var report models.ProgressReport
	if err := s.DB.Preload("Milestones").First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(report)
}

// UpdateReport applies edits to a report the caller filed. Milestones, when
// present in the body, replace the existing set.
func (s *ProgressReportService) UpdateReport(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var report models.ProgressReport
	if err := s.DB.Preload("Milestones").First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if report.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to update this report"})
	}

	var req struct {
		TasksCompleted *string             `json:"tasks_completed"`
		Challenges     *string             `json:"challenges"`
		NextGoals      *string             `json:"next_goals"`
		OverallStatus  *string             `json:"overall_status" validate:"omitempty,oneof=on_track delayed at_risk"`
		Milestones     *[]milestoneRequest `json:"milestones" validate:"omitempty,dive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report fields"})
	}

	if req.TasksCompleted != nil {
		report.TasksCompleted = *req.TasksCompleted
	}
	if req.Challenges != nil {
		report.Challenges = *req.Challenges
	}
	if req.NextGoals != nil {
		report.NextGoals = *req.NextGoals
	}
	if req.OverallStatus != nil {
		report.OverallStatus = models.ReportOverallStatus(*req.OverallStatus)
	}
	report.UpdatedBy = userID

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if req.Milestones != nil {
			if err := tx.Where("report_id = ?", report.ID).Delete(&models.Milestone{}).Error; err != nil {
				return err
			}
			report.Milestones = buildMilestones(report.ID, *req.Milestones)
		}
		return tx.Save(&report).Error
	})
	if err != nil {
		log.Printf("[ProgressReportService] update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update report"})
	}
	return c.JSON(report)
}

// DeleteReport soft-deletes a report the caller filed.
func (s *ProgressReportService) DeleteReport(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var report models.ProgressReport
	if err := s.DB.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if report.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to delete this report"})
	}

	report.UpdatedBy = userID
	if err := s.DB.Save(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete report"})
	}
	if err := s.DB.Delete(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete report"})
	}
	return c.JSON(fiber.Map{"message": "Report deleted"})
}

// DashboardEntry summarizes one idea for its owner: the latest report's
// status and milestone completion, plus the report history.
type DashboardEntry struct {
	IdeaID            string                  `json:"idea_id"`
	Title             string                  `json:"title"`
	Budget            float64                 `json:"budget"`
	Status            string                  `json:"status"`
	MilestoneProgress int                     `json:"milestone_progress"`
	LastReportDate    *time.Time              `json:"last_report_date"`
	TotalReports      int                     `json:"total_reports"`
	Reports           []models.ProgressReport `json:"reports"`
}

// GetStartupDashboard builds the owner's per-idea progress overview. Ideas
// without reports fall back to the idea's own status and zero progress.
func (s *ProgressReportService) GetStartupDashboard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var ideas []models.Idea
	if err := s.DB.Where("created_by = ? AND is_idea = ?", userID, true).
		Order("created_at DESC").Find(&ideas).Error; err != nil {
		log.Printf("[ProgressReportService] dashboard idea lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}

	dashboard := make([]DashboardEntry, 0, len(ideas))
	for _, idea := range ideas {
		var reports []models.ProgressReport
		if err := s.DB.Preload("Milestones").
			Where("idea_id = ?", idea.ID).
			Order("week_number DESC").
			Find(&reports).Error; err != nil {
			log.Printf("[ProgressReportService] dashboard report lookup failed for idea %s: %v", idea.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build dashboard"})
		}

		entry := DashboardEntry{
			IdeaID:       idea.ID,
			Title:        idea.Title,
			Budget:       idea.Budget,
			Status:       string(idea.Status),
			TotalReports: len(reports),
			Reports:      reports,
		}
		if len(reports) > 0 {
			latest := reports[0]
			entry.Status = string(latest.OverallStatus)
			entry.MilestoneProgress = MilestoneProgress(latest.Milestones)
			entry.LastReportDate = &latest.ReportDate
		}
		dashboard = append(dashboard, entry)
	}
	return c.JSON(dashboard)
}
