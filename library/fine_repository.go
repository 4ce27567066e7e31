package library

import (
	"context"

	"github.com/rs/zerolog"
)

const fineColumns = `fine_id, transaction_id, user_id, days_overdue, fine_amount, fine_date, is_paid, payment_date`

type FineRepository struct {
	t table
}

func NewFineRepository(conn Conn, log zerolog.Logger) *FineRepository {
	return &FineRepository{t: newTable(conn, log, "fines")}
}

func (r *FineRepository) Save(ctx context.Context, f *Fine) error {
	if f.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO fines (transaction_id, user_id, days_overdue, fine_amount, fine_date, is_paid, payment_date)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.TransactionID, f.UserID, f.DaysOverdue, f.Amount, f.FineDate, boolInt(f.IsPaid), f.PaymentDate)
		if err != nil {
			return err
		}
		f.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE fines SET transaction_id = ?, user_id = ?, days_overdue = ?, fine_amount = ?,
            fine_date = ?, is_paid = ?, payment_date = ?
        WHERE fine_id = ?`,
		f.TransactionID, f.UserID, f.DaysOverdue, f.Amount, f.FineDate, boolInt(f.IsPaid), f.PaymentDate, f.ID.Int64())
}

func (r *FineRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "fine_id", id)
}

func (r *FineRepository) GetByID(ctx context.Context, id int64) (*Fine, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+fineColumns+` FROM fines WHERE fine_id = ?`, scanFine, id)
}

func (r *FineRepository) GetByUserID(ctx context.Context, userID int64) ([]Fine, error) {
	return queryAll(ctx, r.t, "get_by_user", `SELECT `+fineColumns+` FROM fines WHERE user_id = ?`, scanFine, userID)
}

func (r *FineRepository) GetByTransactionID(ctx context.Context, transactionID int64) ([]Fine, error) {
	return queryAll(ctx, r.t, "get_by_transaction", `SELECT `+fineColumns+` FROM fines WHERE transaction_id = ?`, scanFine, transactionID)
}

func (r *FineRepository) GetAll(ctx context.Context) ([]Fine, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+fineColumns+` FROM fines`, scanFine)
}

func scanFine(row rowScanner) (Fine, error) {
	var f Fine
	err := row.Scan(rowID(&f.ID), number(&f.TransactionID), number(&f.UserID), number(&f.DaysOverdue), money(&f.Amount),
		text(&f.FineDate), flag(&f.IsPaid), text(&f.PaymentDate))
	return f, err
}
