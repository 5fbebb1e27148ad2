// services/wallet_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"startup-funding-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrAmountMismatch       = errors.New("amount mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrWalletNotInitialized = errors.New("startup wallet not initialized")
	ErrSelfInvestment       = errors.New("cannot invest in your own startup")
)

// WalletService owns every ledger invariant: wallets are provisioned here,
// balances change only inside its DB transactions, and each balance change
// writes the matching Transaction row in the same atomic unit.
type WalletService struct {
	DB            *gorm.DB
	Payhere       PayhereConfig
	Notifications *NotificationService
}

func NewWalletService(db *gorm.DB, cfg PayhereConfig, notifications *NotificationService) *WalletService {
	return &WalletService{DB: db, Payhere: cfg, Notifications: notifications}
}

// GetOrCreateWallet returns the user's wallet, creating it with a zero
// balance on first access. A unique index on user_id guards the create race:
// if the insert fails because another request won, the winner's row is
// fetched and returned.
func (s *WalletService) GetOrCreateWallet(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{
		ID:       uuid.NewString(),
		UserID:   userID,
		Balance:  0,
		Currency: s.Payhere.Currency,
		Status:   models.WalletStatusActive,
	}
	if createErr := s.DB.Create(&wallet).Error; createErr != nil {
		// A duplicate key means a concurrent request already created it;
		// any other create failure is a genuine error.
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
		var existing models.Wallet
		if err := s.DB.Where("user_id = ?", userID).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &wallet, nil
}

// TransactionFilter narrows a history query. Dates are inclusive days in
// YYYY-MM-DD form; EndDate covers the whole day.
type TransactionFilter struct {
	Type      string
	Status    string
	StartDate string
	EndDate   string
}

func (s *WalletService) GetTransactionHistory(userID string, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.DB.Where("user_id = ?", userID)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		q = q.Where("created_at >= ?", start)
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		q = q.Where("created_at <= ?", end.Add(24*time.Hour-time.Millisecond))
	}

	var transactions []models.Transaction
	if err := q.Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// InitiateDeposit builds the PayHere checkout payload and records one Pending
// transaction carrying a fresh order id. No balance changes here; the wallet
// is only credited when the gateway's webhook confirms the payment.
func (s *WalletService) InitiateDeposit(userID, name, email string, amount float64) (*PayhereCheckout, error) {
	if !s.Payhere.Configured() {
		return nil, ErrGatewayNotConfigured
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	// The millisecond timestamp alone can collide under concurrent deposits;
	// the uuid fragment keeps every attempt's correlation id distinct.
	orderID := fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	amountFormatted := formatAmount(amount)
	hash := s.Payhere.CheckoutHash(orderID, amountFormatted)

	// Ensure the wallet exists before recording the pending transaction.
	wallet, err := s.GetOrCreateWallet(userID)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Currency:    s.Payhere.Currency,
		PaymentID:   orderID,
		Status:      models.TransactionStatusPending,
		Description: "Top-up via PayHere",
	}
	if err := s.DB.Create(&txn).Error; err != nil {
		return nil, err
	}

	return &PayhereCheckout{
		MerchantID: s.Payhere.MerchantID,
		ReturnURL:  s.Payhere.FrontendURL + "/wallet",
		CancelURL:  s.Payhere.FrontendURL + "/wallet",
		NotifyURL:  s.Payhere.BackendURL + "/api/v1/wallets/notify",
		OrderID:    orderID,
		Items:      "Wallet Top-up",
		Currency:   s.Payhere.Currency,
		Amount:     amountFormatted,
		Hash:       hash,
		FirstName:  name,
		Email:      email,
	}, nil
}

// ProcessPayhereNotify handles a server-to-server payment notification.
// Each step is a gate: signature, success status code, a Pending transaction
// matching the order id, and the recorded amount. Only then does one DB
// transaction mark the row Completed and credit the wallet. Replays of an
// already-processed notification are a logged no-op.
func (s *WalletService) ProcessPayhereNotify(n PayhereNotification) error {
	if !s.Payhere.VerifyNotify(n) {
		log.Printf("[WalletService] signature mismatch for order %s — possible forgery", n.OrderID)
		return ErrInvalidSignature
	}

	// The gateway also notifies about pending/canceled/chargeback outcomes.
	if n.StatusCode != PayhereStatusSuccess {
		log.Printf("[WalletService] ignoring non-success notification for order %s (status_code=%s)", n.OrderID, n.StatusCode)
		return nil
	}

	var txn models.Transaction
	err := s.DB.Where("payment_id = ?", n.OrderID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[WalletService] transaction not found for order %s", n.OrderID)
		return nil
	}
	if err != nil {
		return err
	}
	if txn.Status != models.TransactionStatusPending {
		log.Printf("[WalletService] order %s already processed (status=%s)", n.OrderID, txn.Status)
		return nil
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock: a duplicate delivery may be racing us.
		var locked models.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", txn.ID).First(&locked).Error; err != nil {
			return err
		}
		if locked.Status != models.TransactionStatusPending {
			log.Printf("[WalletService] order %s completed by a concurrent delivery", n.OrderID)
			return nil
		}

		// Guard against tampered amounts. A mismatch aborts and leaves the
		// transaction Pending for manual reconciliation.
		received, perr := strconv.ParseFloat(n.PayhereAmount, 64)
		if perr != nil || formatAmount(locked.Amount) != formatAmount(received) {
			return ErrAmountMismatch
		}

		now := time.Now()
		locked.Status = models.TransactionStatusCompleted
		locked.CompletedAt = &now
		if err := tx.Save(&locked).Error; err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", locked.WalletID).First(&wallet).Error; err != nil {
			return err
		}
		wallet.Balance += received
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}

		log.Printf("[WalletService] payment verified: %s", n.OrderID)
		return nil
	})
}

// ExecuteInvestment moves existing balance from the investor's wallet to the
// startup owner's wallet and records both ledger entries, all in one DB
// transaction. The recipient wallet is deliberately not auto-provisioned:
// crediting an implicitly created wallet for an arbitrary id is unsafe.
func (s *WalletService) ExecuteInvestment(investorID, investorName string, amount float64, startupID, startupOwnerID string) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	if investorID == startupOwnerID {
		return ErrSelfInvestment
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Always lock the two wallet rows in the same order, regardless of
		// transfer direction, so concurrent opposite transfers cannot deadlock.
		firstID, secondID := investorID, startupOwnerID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}

		wallets := make(map[string]*models.Wallet, 2)
		for _, userID := range []string{firstID, secondID} {
			var w models.Wallet
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", userID).First(&w).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if userID == investorID {
					return ErrInsufficientFunds
				}
				return ErrWalletNotInitialized
			}
			if err != nil {
				return err
			}
			wallets[userID] = &w
		}

		investorWallet := wallets[investorID]
		startupWallet := wallets[startupOwnerID]
		if investorWallet.Balance < amount {
			return ErrInsufficientFunds
		}

		investorWallet.Balance -= amount
		if err := tx.Save(investorWallet).Error; err != nil {
			return err
		}

		startupWallet.Balance += amount
		if err := tx.Save(startupWallet).Error; err != nil {
			return err
		}

		// Both sides of the transfer, inserted together.
		entries := []models.Transaction{
			{
				ID:               uuid.NewString(),
				WalletID:         investorWallet.ID,
				UserID:           investorID,
				Type:             models.TransactionTypeInvestment,
				Amount:           -amount,
				Currency:         investorWallet.Currency,
				Status:           models.TransactionStatusCompleted,
				Description:      fmt.Sprintf("Investment in startup %s", startupID),
				RelatedStartupID: &startupID,
			},
			{
				ID:               uuid.NewString(),
				WalletID:         startupWallet.ID,
				UserID:           startupOwnerID,
				Type:             models.TransactionTypeDeposit,
				Amount:           amount,
				Currency:         startupWallet.Currency,
				Status:           models.TransactionStatusCompleted,
				Description:      fmt.Sprintf("Investment received from %s", investorName),
				RelatedStartupID: &startupID,
			},
		}
		return tx.Create(&entries).Error
	})
}

//
// --- HTTP handlers ---
//

// GetMyWallet returns the caller's wallet, creating it on first access.
func (s *WalletService) GetMyWallet(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	wallet, err := s.GetOrCreateWallet(userID)
	if err != nil {
		log.Printf("[WalletService] failed to load wallet for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wallet"})
	}
	return c.JSON(wallet)
}

// GetWalletHistory returns the caller's transactions, newest first.
// Query filters: type, status, startDate, endDate (inclusive days).
func (s *WalletService) GetWalletHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	filter := TransactionFilter{
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	transactions, err := s.GetTransactionHistory(userID, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON([]models.Transaction{})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(transactions)
}

// HandleDepositInitiate generates the PayHere checkout payload for the
// requested amount and records the Pending deposit.
func (s *WalletService) HandleDepositInitiate(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	name, _ := c.Locals("user_name").(string)
	email, _ := c.Locals("user_email").(string)

	var req struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
	}

	checkout, err := s.InitiateDeposit(userID, name, email, req.Amount)
	if err != nil {
		log.Printf("[WalletService] deposit initiation failed for %s: %v", userID, err)
		return c.Status(walletErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(checkout)
}

// HandlePayhereNotify is the unauthenticated webhook endpoint the gateway
// calls server-to-server. All trust derives from the signature check. The
// response is 200 "OK" for processed and idempotently replayed
// notifications, 4xx for rejections the gateway must not retry, and 5xx for
// transient storage failures so its redelivery can complete the credit.
func (s *WalletService) HandlePayhereNotify(c *fiber.Ctx) error {
	var n PayhereNotification
	if err := c.BodyParser(&n); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}
	if err := validate.Struct(&n); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}

	if err := s.ProcessPayhereNotify(n); err != nil {
		log.Printf("[WalletService] notify rejected for order %s: %v", n.OrderID, err)
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrAmountMismatch) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Error")
	}
	return c.SendString("OK")
}

// HandleInvest performs the synchronous peer-to-peer transfer into a startup
// owner's wallet and notifies the owner on success.
func (s *WalletService) HandleInvest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	name, _ := c.Locals("user_name").(string)

	var req struct {
		Amount         float64 `json:"amount" validate:"required,gt=0"`
		StartupID      string  `json:"startupId" validate:"required,uuid"`
		StartupOwnerID string  `json:"startupOwnerId" validate:"required,uuid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment request"})
	}

	if err := s.ExecuteInvestment(userID, name, req.Amount, req.StartupID, req.StartupOwnerID); err != nil {
		log.Printf("[WalletService] investment failed for %s: %v", userID, err)
		return c.Status(walletErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if s.Notifications != nil {
		if _, err := s.Notifications.Notify(NotifyParams{
			RecipientUserID: req.StartupOwnerID,
			Type:            "investment_received",
			Title:           "Investment received",
			Message:         fmt.Sprintf("%s invested %s %s in your startup.", name, formatAmount(req.Amount), s.Payhere.Currency),
			StartupID:       &req.StartupID,
			CreatedBy:       &userID,
		}); err != nil {
			// The transfer already committed; a lost notification is not a reason to fail it.
			log.Printf("[WalletService] failed to notify startup owner %s: %v", req.StartupOwnerID, err)
		}
	}

	return c.JSON(fiber.Map{"message": "Investment successful"})
}

func walletErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrWalletNotInitialized),
		errors.Is(err, ErrSelfInvestment):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrGatewayNotConfigured):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
