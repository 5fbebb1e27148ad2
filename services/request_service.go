// services/request_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidDecision   = errors.New("decision must be 'accept' or 'reject'")
	ErrRequestNotPending = errors.New("request is not awaiting this decision")
)

// RequestService runs the two-stage approval of investment requests:
// pending_founder -> pending_mentor -> approved, with rejection or
// withdrawal possible along the way. Status moves only inside row-locked
// transactions so concurrent decisions cannot double-apply.
type RequestService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewRequestService(db *gorm.DB, notifications *NotificationService) *RequestService {
	return &RequestService{DB: db, Notifications: notifications}
}

// CreateRequest records an investor's offer against an idea, starting at
// pending_founder.
func (s *RequestService) CreateRequest(investorID, ideaID string, amount float64, message string) (*models.InvestmentRequest, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", ideaID).Error; err != nil {
		return nil, err
	}

	req := &models.InvestmentRequest{
		ID:         uuid.NewString(),
		InvestorID: investorID,
		IdeaID:     idea.ID,
		StartupID:  idea.StartupID,
		Amount:     amount,
		Message:    message,
		Status:     models.RequestStatusPendingFounder,
		CreatedBy:  investorID,
		UpdatedBy:  investorID,
	}
	if err := s.DB.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// WithdrawRequest lets the investor pull a request back while it still awaits
// a decision. Decided requests stay as they are.
func (s *RequestService) WithdrawRequest(requestID, investorID string) (*models.InvestmentRequest, error) {
	var req models.InvestmentRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error; err != nil {
			return err
		}
		if req.InvestorID != investorID {
			return gorm.ErrRecordNotFound
		}
		if req.Status != models.RequestStatusPendingFounder && req.Status != models.RequestStatusPendingMentor {
			return ErrRequestNotPending
		}
		req.Status = models.RequestStatusWithdrawn
		req.UpdatedBy = investorID
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SetFounderDecision records the founder's verdict. Accept forwards the
// request to the mentor stage; reject ends it.
func (s *RequestService) SetFounderDecision(requestID, decision, comment, decidedBy string) (*models.InvestmentRequest, error) {
	if decision != models.DecisionAccept && decision != models.DecisionReject {
		return nil, ErrInvalidDecision
	}

	var req models.InvestmentRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error; err != nil {
			return err
		}
		if req.Status != models.RequestStatusPendingFounder {
			return ErrRequestNotPending
		}

		now := time.Now()
		req.FounderDecision = decision
		req.FounderComment = comment
		req.FounderDecidedAt = &now
		if decision == models.DecisionAccept {
			req.Status = models.RequestStatusPendingMentor
		} else {
			req.Status = models.RequestStatusRejected
		}
		req.UpdatedBy = decidedBy
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SetMentorDecision records the mentor's verdict on a founder-accepted
// request. Accept approves it, optionally overriding the amount with
// finalApprovedAmount; reject ends it.
func (s *RequestService) SetMentorDecision(requestID, decision, comment string, finalApprovedAmount *float64, decidedBy string) (*models.InvestmentRequest, error) {
	if decision != models.DecisionAccept && decision != models.DecisionReject {
		return nil, ErrInvalidDecision
	}
	if finalApprovedAmount != nil && *finalApprovedAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	var req models.InvestmentRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&req).Error; err != nil {
			return err
		}
		if req.Status != models.RequestStatusPendingMentor {
			return ErrRequestNotPending
		}

		now := time.Now()
		req.MentorDecision = decision
		req.MentorComment = comment
		req.MentorDecidedAt = &now
		if decision == models.DecisionAccept {
			req.Status = models.RequestStatusApproved
			if finalApprovedAmount != nil {
				req.FinalApprovedAmount = finalApprovedAmount
			}
		} else {
			req.Status = models.RequestStatusRejected
		}
		req.UpdatedBy = decidedBy
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

//
// --- HTTP handlers ---
//

// HandleCreateRequest posts a new investment request and notifies the idea's
// founder.
func (s *RequestService) HandleCreateRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	name, _ := c.Locals("user_name").(string)

	var body struct {
		IdeaID  string  `json:"idea_id" validate:"required,uuid"`
		Amount  float64 `json:"amount" validate:"required,gt=0"`
		Message string  `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "idea_id and a positive amount are required"})
	}

	req, err := s.CreateRequest(userID, body.IdeaID, body.Amount, body.Message)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Idea not found"})
		}
		if errors.Is(err, ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("[RequestService] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create request"})
	}

	s.notifyFounder(req, name)
	return c.Status(fiber.StatusCreated).JSON(req)
}

// GetAllRequests lists requests visible to the caller: ones they sent, plus
// ones against their ideas. Admins see everything. ?status= filters.
func (s *RequestService) GetAllRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	q := s.DB.Model(&models.InvestmentRequest{})
	if !HasRole(c, "admin") {
		q = q.Where("investor_id = ? OR idea_id IN (?)", userID,
			s.DB.Model(&models.Idea{}).Select("id").Where("created_by = ?", userID))
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.InvestmentRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		log.Printf("[RequestService] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch requests"})
	}
	return c.JSON(requests)
}

// GetRequestByID returns one request.
func (s *RequestService) GetRequestByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var req models.InvestmentRequest
	if err := s.DB.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(req)
}

// HandleWithdrawRequest lets the investor withdraw their pending request.
func (s *RequestService) HandleWithdrawRequest(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	req, err := s.WithdrawRequest(id, userID)
	if err != nil {
		return requestDecisionError(c, err, "withdraw")
	}
	return c.JSON(req)
}

// HandleFounderDecision records the founder's accept/reject. Only the idea's
// creator (or an admin) may decide.
func (s *RequestService) HandleFounderDecision(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var body struct {
		Decision string `json:"decision" validate:"required,oneof=accept reject"`
		Comment  string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidDecision.Error()})
	}

	var req models.InvestmentRequest
	if err := s.DB.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", req.IdeaID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if idea.CreatedBy != userID && !HasRole(c, "admin") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed to decide on this request"})
	}

	decided, err := s.SetFounderDecision(id, body.Decision, body.Comment, userID)
	if err != nil {
		return requestDecisionError(c, err, "founder decision")
	}

	s.notifyInvestor(decided, "Founder decision on your investment request",
		fmt.Sprintf("The founder %sed your request.", body.Decision))
	return c.JSON(decided)
}

// HandleMentorDecision records the mentor's accept/reject, optionally with an
// adjusted final amount.
func (s *RequestService) HandleMentorDecision(c *fiber.Ctx) error {
	id := c.Params("id")
	userID := c.Locals("user_id").(string)

	var body struct {
		Decision            string   `json:"decision" validate:"required,oneof=accept reject"`
		Comment             string   `json:"comment"`
		FinalApprovedAmount *float64 `json:"final_approved_amount" validate:"omitempty,gt=0"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidDecision.Error()})
	}

	decided, err := s.SetMentorDecision(id, body.Decision, body.Comment, body.FinalApprovedAmount, userID)
	if err != nil {
		return requestDecisionError(c, err, "mentor decision")
	}

	s.notifyInvestor(decided, "Mentor decision on your investment request",
		fmt.Sprintf("The mentor %sed your request.", body.Decision))
	return c.JSON(decided)
}

func requestDecisionError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	case errors.Is(err, ErrRequestNotPending), errors.Is(err, ErrInvalidDecision), errors.Is(err, ErrInvalidAmount):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[RequestService] %s failed: %v", action, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update request"})
	}
}

func (s *RequestService) notifyFounder(req *models.InvestmentRequest, investorName string) {
	if s.Notifications == nil {
		return
	}
	var idea models.Idea
	if err := s.DB.First(&idea, "id = ?", req.IdeaID).Error; err != nil {
		log.Printf("[RequestService] founder lookup failed for request %s: %v", req.ID, err)
		return
	}
	if _, err := s.Notifications.Notify(NotifyParams{
		RecipientUserID: idea.CreatedBy,
		Type:            "investment_request",
		Title:           "New investment request",
		Message:         fmt.Sprintf("%s offered %s for \"%s\".", investorName, formatAmount(req.Amount), idea.Title),
		RelatedID:       &req.ID,
		StartupID:       req.StartupID,
		CreatedBy:       &req.InvestorID,
	}); err != nil {
		log.Printf("[RequestService] failed to notify founder for request %s: %v", req.ID, err)
	}
}

func (s *RequestService) notifyInvestor(req *models.InvestmentRequest, title, message string) {
	if s.Notifications == nil {
		return
	}
	if _, err := s.Notifications.Notify(NotifyParams{
		RecipientUserID: req.InvestorID,
		Type:            "investment_request_decision",
		Title:           title,
		Message:         message,
		RelatedID:       &req.ID,
		StartupID:       req.StartupID,
	}); err != nil {
		log.Printf("[RequestService] failed to notify investor for request %s: %v", req.ID, err)
	}
}
