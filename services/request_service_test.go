package services

import (
	"regexp"
	"testing"
	"time"

	"startup-funding-system/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRequestService(t *testing.T) (*RequestService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewRequestService(db, nil), mock
}

const (
	selectRequestByID = `SELECT * FROM "investment_requests" WHERE id = $1`
	selectIdeaByID    = `SELECT * FROM "ideas" WHERE id = $1`
)

func requestRows(id, investorID string, amount float64, status models.RequestStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "investor_id", "idea_id", "amount", "status", "created_by", "created_at", "updated_at"}).
		AddRow(id, investorID, "idea-1", amount, string(status), investorID, time.Now(), time.Now())
}

func ideaRows(id, createdBy string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "budget", "is_idea", "status", "created_by"}).
		AddRow(id, "Solar drying racks", 250000.0, true, "approved", createdBy)
}

func TestCreateRequest_StartsPendingFounder(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectIdeaByID)).
		WillReturnRows(ideaRows("idea-1", "founder-1"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "investment_requests"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req, err := svc.CreateRequest("investor-1", "idea-1", 50000, "count me in")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPendingFounder, req.Status)
	assert.Equal(t, "investor-1", req.InvestorID)
	assert.Equal(t, 50000.0, req.Amount)
	assert.Empty(t, req.FounderDecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_InvalidAmount(t *testing.T) {
	svc, mock := newTestRequestService(t)

	for _, amount := range []float64{0, -500} {
		_, err := svc.CreateRequest("investor-1", "idea-1", amount, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFounderDecision_AcceptForwardsToMentor(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingFounder))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "investment_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.SetFounderDecision("req-1", "accept", "looks solid", "founder-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPendingMentor, req.Status)
	assert.Equal(t, "accept", req.FounderDecision)
	assert.Equal(t, "looks solid", req.FounderComment)
	assert.NotNil(t, req.FounderDecidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFounderDecision_RejectEndsRequest(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingFounder))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "investment_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.SetFounderDecision("req-1", "reject", "not a fit", "founder-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, req.Status)
	assert.Equal(t, "reject", req.FounderDecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFounderDecision_RejectsWrongStage(t *testing.T) {
	svc, mock := newTestRequestService(t)

	// Already past the founder stage: the decision must not re-apply.
	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingMentor))
	mock.ExpectRollback()

	_, err := svc.SetFounderDecision("req-1", "accept", "", "founder-1")
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFounderDecision_InvalidDecision(t *testing.T) {
	svc, mock := newTestRequestService(t)

	_, err := svc.SetFounderDecision("req-1", "maybe", "", "founder-1")
	assert.ErrorIs(t, err, ErrInvalidDecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMentorDecision_AcceptApprovesWithFinalAmount(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingMentor))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "investment_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	final := 40000.0
	req, err := svc.SetMentorDecision("req-1", "accept", "trimmed to runway", &final, "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, req.Status)
	require.NotNil(t, req.FinalApprovedAmount)
	assert.Equal(t, 40000.0, *req.FinalApprovedAmount)
	assert.NotNil(t, req.MentorDecidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMentorDecision_AcceptKeepsOriginalAmountWhenNoOverride(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingMentor))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "investment_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.SetMentorDecision("req-1", "accept", "", nil, "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, req.Status)
	assert.Nil(t, req.FinalApprovedAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMentorDecision_RequiresFounderAcceptFirst(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingFounder))
	mock.ExpectRollback()

	_, err := svc.SetMentorDecision("req-1", "accept", "", nil, "mentor-1")
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRequest_PendingRequestOnly(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingMentor))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "investment_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, err := svc.WithdrawRequest("req-1", "investor-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusWithdrawn, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRequest_DecidedRequestStays(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusApproved))
	mock.ExpectRollback()

	_, err := svc.WithdrawRequest("req-1", "investor-1")
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRequest_OnlyTheInvestorMay(t *testing.T) {
	svc, mock := newTestRequestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockedQuery(selectRequestByID)).
		WillReturnRows(requestRows("req-1", "investor-1", 50000, models.RequestStatusPendingFounder))
	mock.ExpectRollback()

	_, err := svc.WithdrawRequest("req-1", "someone-else")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
