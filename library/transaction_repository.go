package library

import (
	"context"

	"github.com/rs/zerolog"
)

const transactionColumns = `transaction_id, user_id, resource_id, issue_date, due_date, return_date, fine_amount,
        is_returned, is_overdue, renewal_count, transaction_status`

// TransactionRepository persists borrows.
type TransactionRepository struct {
	t table
}

func NewTransactionRepository(conn Conn, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{t: newTable(conn, log, "transactions")}
}

func (r *TransactionRepository) Save(ctx context.Context, tx *Transaction) error {
	if tx.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO transactions (user_id, resource_id, issue_date, due_date, return_date,
                fine_amount, is_returned, is_overdue, renewal_count, transaction_status)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.UserID, tx.ResourceID, tx.IssueDate, tx.DueDate, tx.ReturnDate,
			tx.FineAmount, boolInt(tx.IsReturned), boolInt(tx.IsOverdue), tx.RenewalCount, tx.Status)
		if err != nil {
			return err
		}
		tx.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE transactions SET user_id = ?, resource_id = ?, issue_date = ?, due_date = ?,
            return_date = ?, fine_amount = ?, is_returned = ?, is_overdue = ?, renewal_count = ?, transaction_status = ?
        WHERE transaction_id = ?`,
		tx.UserID, tx.ResourceID, tx.IssueDate, tx.DueDate,
		tx.ReturnDate, tx.FineAmount, boolInt(tx.IsReturned), boolInt(tx.IsOverdue), tx.RenewalCount, tx.Status,
		tx.ID.Int64())
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "transaction_id", id)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?`, scanTransaction, id)
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]Transaction, error) {
	return queryAll(ctx, r.t, "get_by_user", `SELECT `+transactionColumns+` FROM transactions WHERE user_id = ?`, scanTransaction, userID)
}

func (r *TransactionRepository) GetByResourceID(ctx context.Context, resourceID int64) ([]Transaction, error) {
	return queryAll(ctx, r.t, "get_by_resource", `SELECT `+transactionColumns+` FROM transactions WHERE resource_id = ?`, scanTransaction, resourceID)
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]Transaction, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+transactionColumns+` FROM transactions`, scanTransaction)
}

// Begin, Commit and Rollback issue the raw statements on the repository's
// handle. They fail on a repository bound to a *sql.Tx; use Database.WithTx
// to group repository calls.
func (r *TransactionRepository) Begin(ctx context.Context) error {
	_, err := r.t.exec(ctx, "begin", "BEGIN")
	return err
}

func (r *TransactionRepository) Commit(ctx context.Context) error {
	_, err := r.t.exec(ctx, "commit", "COMMIT")
	return err
}

func (r *TransactionRepository) Rollback(ctx context.Context) error {
	_, err := r.t.exec(ctx, "rollback", "ROLLBACK")
	return err
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var tx Transaction
	err := row.Scan(rowID(&tx.ID), number(&tx.UserID), number(&tx.ResourceID), text(&tx.IssueDate), text(&tx.DueDate),
		text(&tx.ReturnDate), money(&tx.FineAmount), flag(&tx.IsReturned), flag(&tx.IsOverdue),
		number(&tx.RenewalCount), text(&tx.Status))
	return tx, err
}
