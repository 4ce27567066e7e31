package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Circulation errors returned by LibraryManager.
var (
	ErrInactiveAccount       = errors.New("account is inactive")
	ErrBorrowLimitReached    = errors.New("borrowing limit reached")
	ErrResourceUnavailable   = errors.New("resource is not in circulation")
	ErrNoCopiesAvailable     = errors.New("no copies available")
	ErrAlreadyReturned       = errors.New("transaction already returned")
	ErrRenewalNotAllowed     = errors.New("renewal not allowed")
	ErrFineAlreadyPaid       = errors.New("fine already paid")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrRequestAlreadyDecided = errors.New("fund request already decided")
	ErrDuplicateReservation  = errors.New("reservation already pending")
	ErrReservationClosed     = errors.New("reservation is no longer pending")
)

// LibraryManager runs the circulation lifecycle on top of the repositories.
// Every operation that touches more than one row runs in a single transaction.
type LibraryManager struct {
	db     *Database
	policy Policy
	now    func() time.Time
	cost   int
	log    zerolog.Logger
}

type Option func(*LibraryManager)

func WithPolicy(p Policy) Option { return func(lm *LibraryManager) { lm.policy = p } }

// WithClock replaces time.Now; tests pin the date with it.
func WithClock(now func() time.Time) Option { return func(lm *LibraryManager) { lm.now = now } }

// WithPasswordCost sets the bcrypt cost used when registering accounts.
func WithPasswordCost(cost int) Option { return func(lm *LibraryManager) { lm.cost = cost } }

func WithLogger(log zerolog.Logger) Option { return func(lm *LibraryManager) { lm.log = log } }

func NewLibraryManager(db *Database, opts ...Option) *LibraryManager {
	lm := &LibraryManager{
		db:     db,
		policy: DefaultPolicy(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(lm)
	}
	lm.log = lm.log.With().Str("component", "manager").Logger()
	return lm
}

// Store gives read access to every repository.
func (lm *LibraryManager) Store() *Store { return lm.db.Store() }

func (lm *LibraryManager) Policy() Policy { return lm.policy }

func (lm *LibraryManager) today() string { return lm.now().Format(DateLayout) }

// ------------------ Accounts ------------------

// RegisterUser hashes password, activates the account and saves u.
func (lm *LibraryManager) RegisterUser(ctx context.Context, u *User, password string) error {
	hash, err := hashPassword(password, lm.cost)
	if err != nil {
		return err
	}
	u.Password = hash
	u.IsActive = true
	if u.RegistrationDate == "" {
		u.RegistrationDate = lm.today()
	}
	if err := lm.Store().Users.Save(ctx, u); err != nil {
		return err
	}
	lm.log.Info().Int64("user_id", u.ID.Int64()).Str("username", u.Username).Msg("user registered")
	return nil
}

func (lm *LibraryManager) RegisterAdministrator(ctx context.Context, a *Administrator, password string) error {
	hash, err := hashPassword(password, lm.cost)
	if err != nil {
		return err
	}
	a.Password = hash
	a.IsActive = true
	if a.CreatedDate == "" {
		a.CreatedDate = lm.today()
	}
	if err := lm.Store().Administrators.Save(ctx, a); err != nil {
		return err
	}
	lm.log.Info().Int64("admin_id", a.ID.Int64()).Str("username", a.Username).Msg("administrator registered")
	return nil
}

// AuthenticateUser returns the user when username and password match an
// active account.
func (lm *LibraryManager) AuthenticateUser(ctx context.Context, username, password string) (*User, error) {
	u, err := lm.Store().Users.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := checkPassword(u.Password, password); err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}
	return u, nil
}

func (lm *LibraryManager) AuthenticateAdministrator(ctx context.Context, username, password string) (*Administrator, error) {
	a, err := lm.Store().Administrators.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := checkPassword(a.Password, password); err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrInactiveAccount
	}
	return a, nil
}

// ResetUserPassword replaces the stored hash.
func (lm *LibraryManager) ResetUserPassword(ctx context.Context, userID int64, password string) error {
	hash, err := hashPassword(password, lm.cost)
	if err != nil {
		return err
	}
	return lm.db.WithTx(ctx, func(s *Store) error {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.Password = hash
		return s.Users.Save(ctx, u)
	})
}

// ------------------ Circulation ------------------

// IssueResource lends one copy of resourceID to userID. A pending
// reservation the user holds on the resource is fulfilled.
func (lm *LibraryManager) IssueResource(ctx context.Context, userID, resourceID int64) (*Transaction, error) {
	var tx Transaction
	err := lm.db.WithTx(ctx, func(s *Store) error {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return ErrInactiveAccount
		}
		m, err := s.MembershipTypes.GetByID(ctx, u.MembershipTypeID)
		if err != nil {
			return err
		}
		loans, err := s.Transactions.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		open := 0
		for _, l := range loans {
			if !l.IsReturned {
				open++
			}
		}
		if open >= m.MaxBorrowingLimit {
			return fmt.Errorf("user %d has %d of %d: %w", userID, open, m.MaxBorrowingLimit, ErrBorrowLimitReached)
		}

		res, err := s.Resources.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if !res.IsActive {
			return ErrResourceUnavailable
		}
		if res.AvailableCopies <= 0 {
			return fmt.Errorf("resource %d: %w", resourceID, ErrNoCopiesAvailable)
		}

		today := lm.today()
		due, err := addDays(today, m.BorrowingDurationDays)
		if err != nil {
			return err
		}
		tx = Transaction{
			UserID:     userID,
			ResourceID: resourceID,
			IssueDate:  today,
			DueDate:    due,
			Status:     TransactionActive,
		}
		if err := s.Transactions.Save(ctx, &tx); err != nil {
			return err
		}
		res.AvailableCopies--
		if err := s.Resources.Save(ctx, res); err != nil {
			return err
		}
		return fulfilReservation(ctx, s, userID, resourceID)
	})
	if err != nil {
		return nil, err
	}
	lm.log.Info().Int64("transaction_id", tx.ID.Int64()).Int64("user_id", userID).
		Int64("resource_id", resourceID).Str("due", tx.DueDate).Msg("resource issued")
	return &tx, nil
}

func fulfilReservation(ctx context.Context, s *Store, userID, resourceID int64) error {
	reservations, err := s.Reservations.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range reservations {
		r := &reservations[i]
		if r.ResourceID != resourceID || r.Status != ReservationPending {
			continue
		}
		r.IsFulfilled = true
		r.Status = ReservationFulfilled
		return s.Reservations.Save(ctx, r)
	}
	return nil
}

// RenewTransaction extends the due date of an open, not yet overdue loan by
// the member's borrowing duration.
func (lm *LibraryManager) RenewTransaction(ctx context.Context, transactionID int64) (*Transaction, error) {
	var renewed *Transaction
	err := lm.db.WithTx(ctx, func(s *Store) error {
		tx, err := s.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.IsReturned {
			return ErrAlreadyReturned
		}
		today := lm.today()
		days, err := DaysOverdue(tx.DueDate, today)
		if err != nil {
			return err
		}
		if tx.IsOverdue || days > 0 {
			return fmt.Errorf("transaction %d is overdue: %w", transactionID, ErrRenewalNotAllowed)
		}

		res, err := s.Resources.GetByID(ctx, tx.ResourceID)
		if err != nil {
			return err
		}
		rt, err := s.ResourceTypes.GetByID(ctx, res.ResourceTypeID)
		if err != nil {
			return err
		}
		if limit := lm.policy.renewalLimit(rt); tx.RenewalCount >= limit {
			return fmt.Errorf("transaction %d renewed %d of %d times: %w", transactionID, tx.RenewalCount, limit, ErrRenewalNotAllowed)
		}

		u, err := s.Users.GetByID(ctx, tx.UserID)
		if err != nil {
			return err
		}
		m, err := s.MembershipTypes.GetByID(ctx, u.MembershipTypeID)
		if err != nil {
			return err
		}
		if tx.DueDate, err = addDays(tx.DueDate, m.BorrowingDurationDays); err != nil {
			return err
		}
		tx.RenewalCount++
		renewed = tx
		return s.Transactions.Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return renewed, nil
}

// ReturnReceipt describes what a return wrote.
type ReturnReceipt struct {
	Transaction Transaction      `json:"transaction"`
	Fine        *Fine            `json:"fine,omitempty"` // nil when returned on time
	History     BorrowingHistory `json:"history"`
}

// ReturnResource closes a loan, fines late returns at the member's daily
// rate, puts the copy back and archives the loan.
func (lm *LibraryManager) ReturnResource(ctx context.Context, transactionID int64) (*ReturnReceipt, error) {
	var receipt ReturnReceipt
	err := lm.db.WithTx(ctx, func(s *Store) error {
		tx, err := s.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx.IsReturned {
			return ErrAlreadyReturned
		}
		today := lm.today()
		days, err := DaysOverdue(tx.DueDate, today)
		if err != nil {
			// Without a readable due date the loan cannot be late.
			lm.log.Warn().Err(err).Int64("transaction_id", transactionID).Msg("returning loan with unreadable due date")
			days = 0
		}
		u, err := s.Users.GetByID(ctx, tx.UserID)
		if err != nil {
			return err
		}
		m, err := s.MembershipTypes.GetByID(ctx, u.MembershipTypeID)
		if err != nil {
			return err
		}
		amount := FineFor(days, m.FinePerDay)

		tx.ReturnDate = today
		tx.IsReturned = true
		tx.IsOverdue = days > 0
		tx.FineAmount = amount
		tx.Status = TransactionReturned
		if err := s.Transactions.Save(ctx, tx); err != nil {
			return err
		}

		if amount > 0 {
			fine := Fine{
				TransactionID: transactionID,
				UserID:        tx.UserID,
				DaysOverdue:   days,
				Amount:        amount,
				FineDate:      today,
			}
			if err := s.Fines.Save(ctx, &fine); err != nil {
				return err
			}
			receipt.Fine = &fine
		}

		res, err := s.Resources.GetByID(ctx, tx.ResourceID)
		if err != nil {
			return err
		}
		if res.AvailableCopies < res.TotalCopies {
			res.AvailableCopies++
		}
		if err := s.Resources.Save(ctx, res); err != nil {
			return err
		}

		receipt.History = BorrowingHistory{
			UserID:     tx.UserID,
			ResourceID: tx.ResourceID,
			IssueDate:  tx.IssueDate,
			DueDate:    tx.DueDate,
			ReturnDate: today,
			FineAmount: amount,
		}
		if err := s.BorrowingHistories.Save(ctx, &receipt.History); err != nil {
			return err
		}
		receipt.Transaction = *tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev := lm.log.Info().Int64("transaction_id", transactionID)
	if receipt.Fine != nil {
		ev = ev.Int("days_overdue", receipt.Fine.DaysOverdue).Float64("fine", receipt.Fine.Amount)
	}
	ev.Msg("resource returned")
	return &receipt, nil
}

// ------------------ Fines and funds ------------------

// PayFine settles a fine from the user's balance. The balance may go negative.
func (lm *LibraryManager) PayFine(ctx context.Context, fineID int64) (*Fine, error) {
	var paid *Fine
	err := lm.db.WithTx(ctx, func(s *Store) error {
		f, err := s.Fines.GetByID(ctx, fineID)
		if err != nil {
			return err
		}
		if f.IsPaid {
			return ErrFineAlreadyPaid
		}
		u, err := s.Users.GetByID(ctx, f.UserID)
		if err != nil {
			return err
		}
		u.Balance = addMoney(u.Balance, -f.Amount)
		if err := s.Users.Save(ctx, u); err != nil {
			return err
		}
		f.IsPaid = true
		f.PaymentDate = lm.today()
		paid = f
		return s.Fines.Save(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// OutstandingFines sums the unpaid fines of a user.
func (lm *LibraryManager) OutstandingFines(ctx context.Context, userID int64) (float64, error) {
	fines, err := lm.Store().Fines.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, f := range fines {
		if !f.IsPaid {
			total = addMoney(total, f.Amount)
		}
	}
	return total, nil
}

func (lm *LibraryManager) RequestFunds(ctx context.Context, userID int64, amount float64) (*FundRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var fr FundRequest
	err := lm.db.WithTx(ctx, func(s *Store) error {
		if _, err := s.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		fr = FundRequest{
			UserID:          userID,
			RequestedAmount: amount,
			RequestDate:     lm.today(),
			Status:          FundRequestPending,
		}
		return s.FundRequests.Save(ctx, &fr)
	})
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// ApproveFundRequest credits the requested amount to the user's balance.
func (lm *LibraryManager) ApproveFundRequest(ctx context.Context, requestID, adminID int64, notes string) (*FundRequest, error) {
	return lm.decideFundRequest(ctx, requestID, adminID, notes, FundRequestApproved)
}

func (lm *LibraryManager) RejectFundRequest(ctx context.Context, requestID, adminID int64, notes string) (*FundRequest, error) {
	return lm.decideFundRequest(ctx, requestID, adminID, notes, FundRequestRejected)
}

func (lm *LibraryManager) decideFundRequest(ctx context.Context, requestID, adminID int64, notes, status string) (*FundRequest, error) {
	var decided *FundRequest
	err := lm.db.WithTx(ctx, func(s *Store) error {
		fr, err := s.FundRequests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if fr.Status != FundRequestPending {
			return fmt.Errorf("request %d is %s: %w", requestID, fr.Status, ErrRequestAlreadyDecided)
		}
		admin, err := s.Administrators.GetByID(ctx, adminID)
		if err != nil {
			return err
		}
		if !admin.IsActive {
			return ErrInactiveAccount
		}
		if status == FundRequestApproved {
			u, err := s.Users.GetByID(ctx, fr.UserID)
			if err != nil {
				return err
			}
			u.Balance = addMoney(u.Balance, fr.RequestedAmount)
			if err := s.Users.Save(ctx, u); err != nil {
				return err
			}
		}
		fr.Status = status
		fr.AdminID = adminID
		fr.ApprovalDate = lm.today()
		fr.AdminNotes = notes
		decided = fr
		return s.FundRequests.Save(ctx, fr)
	})
	if err != nil {
		return nil, err
	}
	lm.log.Info().Int64("request_id", requestID).Int64("admin_id", adminID).Str("status", status).Msg("fund request decided")
	return decided, nil
}

// ------------------ Reservations ------------------

// PlaceReservation holds a resource for a user for Policy.ReservationHoldDays.
func (lm *LibraryManager) PlaceReservation(ctx context.Context, userID, resourceID int64) (*Reservation, error) {
	var r Reservation
	err := lm.db.WithTx(ctx, func(s *Store) error {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return ErrInactiveAccount
		}
		res, err := s.Resources.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if !res.IsActive {
			return ErrResourceUnavailable
		}
		existing, err := s.Reservations.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.ResourceID == resourceID && e.Status == ReservationPending {
				return ErrDuplicateReservation
			}
		}
		today := lm.today()
		expiry, err := addDays(today, lm.policy.ReservationHoldDays)
		if err != nil {
			return err
		}
		r = Reservation{
			UserID:          userID,
			ResourceID:      resourceID,
			ReservationDate: today,
			ExpiryDate:      expiry,
			Status:          ReservationPending,
		}
		return s.Reservations.Save(ctx, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (lm *LibraryManager) CancelReservation(ctx context.Context, reservationID int64) error {
	return lm.db.WithTx(ctx, func(s *Store) error {
		r, err := s.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status != ReservationPending {
			return ErrReservationClosed
		}
		r.IsCancelled = true
		r.Status = ReservationCancelled
		return s.Reservations.Save(ctx, r)
	})
}

// ------------------ Sweep ------------------

// SweepResult counts what a sweep did. Overdue counts loans newly marked
// overdue; loans already overdue only get their accrued fine refreshed.
// Skipped counts open loans whose due date could not be read.
type SweepResult struct {
	Overdue int `json:"overdue"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
}

// SweepOverdue marks open loans past their due date as overdue with the fine
// accrued so far, and expires pending reservations past their expiry date.
func (lm *LibraryManager) SweepOverdue(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	today := lm.today()
	err := lm.db.WithTx(ctx, func(s *Store) error {
		txs, err := s.Transactions.GetAll(ctx)
		if err != nil {
			return err
		}
		rates := map[int64]float64{}
		for i := range txs {
			tx := &txs[i]
			if tx.IsReturned {
				continue
			}
			days, err := DaysOverdue(tx.DueDate, today)
			if err != nil {
				lm.log.Warn().Err(err).Int64("transaction_id", tx.ID.Int64()).Msg("skipping loan with unreadable due date")
				result.Skipped++
				continue
			}
			if days == 0 {
				continue
			}
			rate, ok := rates[tx.UserID]
			if !ok {
				u, err := s.Users.GetByID(ctx, tx.UserID)
				if err != nil {
					return err
				}
				m, err := s.MembershipTypes.GetByID(ctx, u.MembershipTypeID)
				if err != nil {
					return err
				}
				rate = m.FinePerDay
				rates[tx.UserID] = rate
			}
			newlyOverdue := !tx.IsOverdue
			tx.IsOverdue = true
			tx.Status = TransactionOverdue
			tx.FineAmount = FineFor(days, rate)
			if err := s.Transactions.Save(ctx, tx); err != nil {
				return err
			}
			if newlyOverdue {
				result.Overdue++
			}
		}

		reservations, err := s.Reservations.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range reservations {
			r := &reservations[i]
			if r.Status != ReservationPending || r.ExpiryDate >= today {
				continue
			}
			r.Status = ReservationExpired
			if err := s.Reservations.Save(ctx, r); err != nil {
				return err
			}
			result.Expired++
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return result, nil
}
