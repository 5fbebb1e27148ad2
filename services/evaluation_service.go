// services/evaluation_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// EvaluationService produces the AI SWOT analysis and risk score for a
// startup. With no API key configured it falls back to a deterministic
// response so the app still works in dev and CI; with a key present, Gemini
// errors surface to the caller instead of silently mocking.
type EvaluationService struct {
	DB        *gorm.DB
	client    *genai.Client
	modelName string
}

func NewEvaluationService(db *gorm.DB, apiKey string) (*EvaluationService, error) {
	s := &EvaluationService{DB: db, modelName: os.Getenv("GEMINI_MODEL")}
	if s.modelName == "" {
		s.modelName = "gemini-2.5-flash"
	}

	if apiKey == "" {
		log.Println("[EvaluationService] GEMINI_API_KEY not set — using deterministic fallback evaluations")
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

type swotResult struct {
	Strengths     string `json:"strengths"`
	Weaknesses    string `json:"weaknesses"`
	Opportunities string `json:"opportunities"`
	Threats       string `json:"threats"`
	RiskScore     int    `json:"riskScore"`
}

// fallbackEvaluation is the deterministic response used without an API key.
func fallbackEvaluation(category string) swotResult {
	if category == "" {
		category = "the target market"
	}
	return swotResult{
		Strengths:     fmt.Sprintf("Strong market potential in %s.", category),
		Weaknesses:    "High initial burn rate predicted based on budget.",
		Opportunities: "Could expand into adjacent vertical markets.",
		Threats:       "Competitive landscape is crowded with well-funded players.",
		RiskScore:     5,
	}
}

func clampRiskScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// parseEvaluationJSON decodes the model output, tolerating the markdown
// fences Gemini sometimes wraps around JSON, and clamps the score to 1..10.
func parseEvaluationJSON(raw string) (swotResult, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var result swotResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return swotResult{}, fmt.Errorf("unparseable evaluation response: %w", err)
	}
	if result.RiskScore == 0 {
		result.RiskScore = 5
	}
	result.RiskScore = clampRiskScore(result.RiskScore)
	return result, nil
}

const evaluationPrompt = `You are an expert startup investment analyst.
Analyze the following startup idea and return ONLY a valid JSON object — no markdown fences, no extra text.

Startup details:
- Category: %s
- Budget: %s
- Description: %s

Return this exact JSON structure:
{
  "strengths": "<one concise paragraph>",
  "weaknesses": "<one concise paragraph>",
  "opportunities": "<one concise paragraph>",
  "threats": "<one concise paragraph>",
  "riskScore": <integer 1-10 where 10 is highest risk>
}`

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (s *EvaluationService) runEvaluation(ctx context.Context, description, budget, category string) (swotResult, error) {
	if s.client == nil {
		return fallbackEvaluation(category), nil
	}

	model := s.client.GenerativeModel(s.modelName)
	prompt := fmt.Sprintf(evaluationPrompt, orNA(category), orNA(budget), orNA(description))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return swotResult{}, fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return swotResult{}, errors.New("gemini returned no candidates")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return swotResult{}, errors.New("gemini returned a non-text part")
	}
	return parseEvaluationJSON(string(text))
}

// GenerateEvaluation returns the cached evaluation for a startup, or runs a
// fresh one. ?force=true discards the cached row and regenerates.
func (s *EvaluationService) GenerateEvaluation(c *fiber.Ctx) error {
	startupID := c.Params("id")
	if _, err := uuid.Parse(startupID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid startup ID"})
	}
	force := c.Query("force") == "true"

	var req struct {
		Description string `json:"description"`
		Budget      string `json:"budget"`
		Category    string `json:"category"`
	}
	_ = c.BodyParser(&req) // all fields optional; the startup record backfills

	var existing models.Evaluation
	err := s.DB.Where("startup_id = ?", startupID).First(&existing).Error
	if err == nil && !force {
		return c.JSON(fiber.Map{"evaluation": existing, "created": false})
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err == nil && force {
		if err := s.DB.Delete(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to discard stale evaluation"})
		}
	}

	if req.Description == "" {
		var startup models.Startup
		if err := s.DB.First(&startup, "id = ?", startupID).Error; err == nil {
			req.Description = startup.Description
		}
	}

	result, err := s.runEvaluation(c.Context(), req.Description, req.Budget, req.Category)
	if err != nil {
		log.Printf("[EvaluationService] evaluation failed for startup %s: %v", startupID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Evaluation failed"})
	}

	evaluation := models.Evaluation{
		ID:            uuid.NewString(),
		StartupID:     startupID,
		RiskScore:     result.RiskScore,
		Strengths:     result.Strengths,
		Weaknesses:    result.Weaknesses,
		Opportunities: result.Opportunities,
		Threats:       result.Threats,
		GeneratedAt:   time.Now(),
	}
	if err := s.DB.Create(&evaluation).Error; err != nil {
		log.Printf("[EvaluationService] persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store evaluation"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"evaluation": evaluation, "created": true})
}

// GetEvaluation returns the stored evaluation for a startup.
func (s *EvaluationService) GetEvaluation(c *fiber.Ctx) error {
	startupID := c.Params("id")

	var evaluation models.Evaluation
	if err := s.DB.Where("startup_id = ?", startupID).First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(evaluation)
}

// UpdateEvaluation applies a partial manual correction to an evaluation.
func (s *EvaluationService) UpdateEvaluation(c *fiber.Ctx) error {
	startupID := c.Params("id")

	var evaluation models.Evaluation
	if err := s.DB.Where("startup_id = ?", startupID).First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		RiskScore     *int    `json:"risk_score" validate:"omitempty,min=1,max=10"`
		Strengths     *string `json:"strengths"`
		Weaknesses    *string `json:"weaknesses"`
		Opportunities *string `json:"opportunities"`
		Threats       *string `json:"threats"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "risk_score must be between 1 and 10"})
	}

	if req.RiskScore != nil {
		evaluation.RiskScore = *req.RiskScore
	}
	if req.Strengths != nil {
		evaluation.Strengths = *req.Strengths
	}
	if req.Weaknesses != nil {
		evaluation.Weaknesses = *req.Weaknesses
	}
	if req.Opportunities != nil {
		evaluation.Opportunities = *req.Opportunities
	}
	if req.Threats != nil {
		evaluation.Threats = *req.Threats
	}

	if err := s.DB.Save(&evaluation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update evaluation"})
	}
	return c.JSON(evaluation)
}

// DeleteEvaluation permanently removes a startup's evaluation.
func (s *EvaluationService) DeleteEvaluation(c *fiber.Ctx) error {
	startupID := c.Params("id")

	result := s.DB.Where("startup_id = ?", startupID).Delete(&models.Evaluation{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete evaluation"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
	}
	return c.JSON(fiber.Map{"message": "Evaluation deleted"})
}
