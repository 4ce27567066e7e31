package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

func newTestManager(t *testing.T) (*LibraryManager, *testClock, fixture) {
	t.Helper()
	db := memoryDB(t)
	f := seed(t, db)
	clock := &testClock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	mgr := NewLibraryManager(db, WithClock(clock.now), WithPasswordCost(bcrypt.MinCost))
	return mgr, clock, f
}

func TestRegisterAndAuthenticateUser(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	u := User{
		Person:           Person{Username: "sara", FirstName: "Sara", LastName: "Ahmed", Email: "sara@test.com"},
		Address:          "Block B",
		Phone:            "0311",
		MembershipTypeID: f.membership.ID.Int64(),
	}
	require.NoError(t, mgr.RegisterUser(ctx, &u, "hunter22"))
	assert.NotEqual(t, "hunter22", u.Password)
	assert.True(t, u.IsActive)
	assert.Equal(t, "2026-02-01", u.RegistrationDate)

	got, err := mgr.AuthenticateUser(ctx, "sara", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = mgr.AuthenticateUser(ctx, "sara", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = mgr.AuthenticateUser(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, mgr.ResetUserPassword(ctx, u.ID.Int64(), "newpass"))
	_, err = mgr.AuthenticateUser(ctx, "sara", "newpass")
	assert.NoError(t, err)

	assert.ErrorIs(t, mgr.RegisterUser(ctx, &User{}, "  "), ErrEmptyPassword)
}

func TestAuthenticateInactiveAdministrator(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	a := Administrator{Person: Person{Username: "ops", FirstName: "Op", LastName: "S", Email: "ops@test.com"}}
	require.NoError(t, mgr.RegisterAdministrator(ctx, &a, "s3cret"))

	_, err := mgr.AuthenticateAdministrator(ctx, "ops", "s3cret")
	require.NoError(t, err)

	a.IsActive = false
	require.NoError(t, mgr.Store().Administrators.Save(ctx, &a))
	_, err = mgr.AuthenticateAdministrator(ctx, "ops", "s3cret")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestIssueAndReturnOnTime(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", tx.IssueDate)
	assert.Equal(t, "2026-02-15", tx.DueDate)
	assert.Equal(t, TransactionActive, tx.Status)

	res, err := mgr.Store().Resources.GetByID(ctx, f.resource.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableCopies)

	clock.advance(10)
	receipt, err := mgr.ReturnResource(ctx, tx.ID.Int64())
	require.NoError(t, err)
	assert.Nil(t, receipt.Fine)
	assert.True(t, receipt.Transaction.IsReturned)
	assert.False(t, receipt.Transaction.IsOverdue)
	assert.Equal(t, TransactionReturned, receipt.Transaction.Status)
	assert.Equal(t, "2026-02-11", receipt.Transaction.ReturnDate)

	res, err = mgr.Store().Resources.GetByID(ctx, f.resource.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 2, res.AvailableCopies)

	history, err := mgr.Store().BorrowingHistories.GetByUserID(ctx, f.user.ID.Int64())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-02-11", history[0].ReturnDate)
	assert.Zero(t, history[0].FineAmount)

	_, err = mgr.ReturnResource(ctx, tx.ID.Int64())
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestLateReturnCreatesFine(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)

	clock.advance(14 + 3)
	receipt, err := mgr.ReturnResource(ctx, tx.ID.Int64())
	require.NoError(t, err)
	require.NotNil(t, receipt.Fine)
	assert.Equal(t, 3, receipt.Fine.DaysOverdue)
	assert.Equal(t, 15.0, receipt.Fine.Amount)
	assert.True(t, receipt.Transaction.IsOverdue)
	assert.Equal(t, 15.0, receipt.History.FineAmount)

	owed, err := mgr.OutstandingFines(ctx, f.user.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 15.0, owed)

	paid, err := mgr.PayFine(ctx, receipt.Fine.ID.Int64())
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "2026-02-18", paid.PaymentDate)

	u, err := mgr.Store().Users.GetByID(ctx, f.user.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, -15.0, u.Balance)

	_, err = mgr.PayFine(ctx, receipt.Fine.ID.Int64())
	assert.ErrorIs(t, err, ErrFineAlreadyPaid)
}

func TestIssueRespectsLimits(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()
	uid, rid := f.user.ID.Int64(), f.resource.ID.Int64()

	_, err := mgr.IssueResource(ctx, uid, rid)
	require.NoError(t, err)
	_, err = mgr.IssueResource(ctx, uid, rid)
	require.NoError(t, err)

	// Both copies are out and the student limit is 2.
	_, err = mgr.IssueResource(ctx, uid, rid)
	assert.ErrorIs(t, err, ErrBorrowLimitReached)

	other := User{
		Person:           Person{Username: "second", FirstName: "S", LastName: "U", Email: "second@test.com"},
		Address:          "x",
		Phone:            "y",
		MembershipTypeID: f.membership.ID.Int64(),
	}
	require.NoError(t, mgr.RegisterUser(ctx, &other, "pw"))
	_, err = mgr.IssueResource(ctx, other.ID.Int64(), rid)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)

	other.IsActive = false
	require.NoError(t, mgr.Store().Users.Save(ctx, &other))
	_, err = mgr.IssueResource(ctx, other.ID.Int64(), rid)
	assert.ErrorIs(t, err, ErrInactiveAccount)

	_, err = mgr.IssueResource(ctx, 9999, rid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFailedIssueLeavesNoTrace(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	f.resource.IsActive = false
	require.NoError(t, mgr.Store().Resources.Save(ctx, &f.resource))

	_, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.ErrorIs(t, err, ErrResourceUnavailable)

	txs, err := mgr.Store().Transactions.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRenewTransaction(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)

	renewed, err := mgr.RenewTransaction(ctx, tx.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 1, renewed.RenewalCount)
	assert.Equal(t, "2026-03-01", renewed.DueDate)

	_, err = mgr.RenewTransaction(ctx, tx.ID.Int64())
	require.NoError(t, err)

	_, err = mgr.RenewTransaction(ctx, tx.ID.Int64())
	assert.ErrorIs(t, err, ErrRenewalNotAllowed)

	clock.advance(60)
	_, err = mgr.RenewTransaction(ctx, tx.ID.Int64())
	assert.ErrorIs(t, err, ErrRenewalNotAllowed)
}

func TestRenewalLimitFollowsResourceType(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	f.resourceType.MaxRenewals = 0
	require.NoError(t, mgr.Store().ResourceTypes.Save(ctx, &f.resourceType))

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	_, err = mgr.RenewTransaction(ctx, tx.ID.Int64())
	assert.ErrorIs(t, err, ErrRenewalNotAllowed)
}

func TestFundRequestApproval(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.RequestFunds(ctx, f.user.ID.Int64(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	fr, err := mgr.RequestFunds(ctx, f.user.ID.Int64(), 50.50)
	require.NoError(t, err)
	assert.Equal(t, FundRequestPending, fr.Status)
	assert.Zero(t, fr.AdminID)

	approved, err := mgr.ApproveFundRequest(ctx, fr.ID.Int64(), f.admin.ID.Int64(), "ok")
	require.NoError(t, err)
	assert.Equal(t, FundRequestApproved, approved.Status)
	assert.Equal(t, f.admin.ID.Int64(), approved.AdminID)
	assert.Equal(t, "2026-02-01", approved.ApprovalDate)

	u, err := mgr.Store().Users.GetByID(ctx, f.user.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 50.50, u.Balance)

	_, err = mgr.RejectFundRequest(ctx, fr.ID.Int64(), f.admin.ID.Int64(), "too late")
	assert.ErrorIs(t, err, ErrRequestAlreadyDecided)
}

func TestFundRequestRejection(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	fr, err := mgr.RequestFunds(ctx, f.user.ID.Int64(), 20)
	require.NoError(t, err)
	rejected, err := mgr.RejectFundRequest(ctx, fr.ID.Int64(), f.admin.ID.Int64(), "no receipt")
	require.NoError(t, err)
	assert.Equal(t, FundRequestRejected, rejected.Status)
	assert.Equal(t, "no receipt", rejected.AdminNotes)

	u, err := mgr.Store().Users.GetByID(ctx, f.user.ID.Int64())
	require.NoError(t, err)
	assert.Zero(t, u.Balance)
}

func TestReservationFlow(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()
	uid, rid := f.user.ID.Int64(), f.resource.ID.Int64()

	r, err := mgr.PlaceReservation(ctx, uid, rid)
	require.NoError(t, err)
	assert.Equal(t, ReservationPending, r.Status)
	assert.Equal(t, "2026-02-08", r.ExpiryDate)

	_, err = mgr.PlaceReservation(ctx, uid, rid)
	assert.ErrorIs(t, err, ErrDuplicateReservation)

	_, err = mgr.IssueResource(ctx, uid, rid)
	require.NoError(t, err)

	got, err := mgr.Store().Reservations.GetByID(ctx, r.ID.Int64())
	require.NoError(t, err)
	assert.True(t, got.IsFulfilled)
	assert.Equal(t, ReservationFulfilled, got.Status)

	assert.ErrorIs(t, mgr.CancelReservation(ctx, r.ID.Int64()), ErrReservationClosed)
}

func TestCancelReservation(t *testing.T) {
	mgr, _, f := newTestManager(t)
	ctx := context.Background()

	r, err := mgr.PlaceReservation(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	require.NoError(t, mgr.CancelReservation(ctx, r.ID.Int64()))

	got, err := mgr.Store().Reservations.GetByID(ctx, r.ID.Int64())
	require.NoError(t, err)
	assert.True(t, got.IsCancelled)
	assert.Equal(t, ReservationCancelled, got.Status)
}

func TestSweepOverdue(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	r, err := mgr.PlaceReservation(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)

	res, err := mgr.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)

	clock.advance(16)
	res, err = mgr.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Overdue: 1, Expired: 1}, res)

	got, err := mgr.Store().Transactions.GetByID(ctx, tx.ID.Int64())
	require.NoError(t, err)
	assert.True(t, got.IsOverdue)
	assert.Equal(t, TransactionOverdue, got.Status)
	assert.Equal(t, 10.0, got.FineAmount)

	expired, err := mgr.Store().Reservations.GetByID(ctx, r.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, ReservationExpired, expired.Status)
}

func TestSweepSkipsLoanWithUnreadableDueDate(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	good, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	res, err := mgr.db.db.ExecContext(ctx, `INSERT INTO transactions (user_id, resource_id, issue_date) VALUES (?, ?, '2026-02-01')`,
		f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)
	badID, err := res.LastInsertId()
	require.NoError(t, err)

	clock.advance(28)
	result, err := mgr.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Overdue: 1, Skipped: 1}, result)

	got, err := mgr.Store().Transactions.GetByID(ctx, good.ID.Int64())
	require.NoError(t, err)
	assert.True(t, got.IsOverdue)
	assert.Equal(t, 70.0, got.FineAmount)

	// The loan without a due date can still be closed, unfined.
	receipt, err := mgr.ReturnResource(ctx, badID)
	require.NoError(t, err)
	assert.Nil(t, receipt.Fine)
	assert.Equal(t, TransactionReturned, receipt.Transaction.Status)
}

func TestSweepCountsOnlyNewlyOverdueLoans(t *testing.T) {
	mgr, clock, f := newTestManager(t)
	ctx := context.Background()

	tx, err := mgr.IssueResource(ctx, f.user.ID.Int64(), f.resource.ID.Int64())
	require.NoError(t, err)

	clock.advance(15)
	result, err := mgr.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Overdue)

	clock.advance(2)
	result, err = mgr.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Overdue)

	got, err := mgr.Store().Transactions.GetByID(ctx, tx.ID.Int64())
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.FineAmount, "fine keeps accruing on later sweeps")
}
