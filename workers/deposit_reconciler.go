// workers/deposit_reconciler.go
package workers

import (
	"log"
	"time"

	"startup-funding-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StaleDepositAge is how long a deposit may sit Pending before we assume
// the checkout was abandoned and the gateway will never notify us.
const StaleDepositAge = 24 * time.Hour

// FailStaleDeposits marks pending deposit transactions created before
// cutoff as failed and returns the number of rows changed.
func FailStaleDeposits(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Model(&models.Transaction{}).
		Where("type = ? AND status = ? AND created_at < ?",
			models.TransactionTypeDeposit, models.TransactionStatusPending, cutoff).
		Update("status", models.TransactionStatusFailed)
	return res.RowsAffected, res.Error
}

// StartDepositReconciler runs FailStaleDeposits every hour.
func StartDepositReconciler(db *gorm.DB) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-StaleDepositAge)
			n, err := FailStaleDeposits(db, cutoff)
			if err != nil {
				log.Printf("[Reconciler] DB error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("[Reconciler] Marked %d stale pending deposits as failed", n)
			}
		}),
	)
}
