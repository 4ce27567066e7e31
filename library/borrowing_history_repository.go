package library

import (
	"context"

	"github.com/rs/zerolog"
)

const borrowingHistoryColumns = `history_id, user_id, resource_id, issue_date, due_date, return_date, fine_amount`

// BorrowingHistoryRepository archives closed transactions.
type BorrowingHistoryRepository struct {
	t table
}

func NewBorrowingHistoryRepository(conn Conn, log zerolog.Logger) *BorrowingHistoryRepository {
	return &BorrowingHistoryRepository{t: newTable(conn, log, "borrowing_history")}
}

func (r *BorrowingHistoryRepository) Save(ctx context.Context, h *BorrowingHistory) error {
	if h.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO borrowing_history (user_id, resource_id, issue_date, due_date, return_date, fine_amount)
            VALUES (?, ?, ?, ?, ?, ?)`,
			h.UserID, h.ResourceID, h.IssueDate, h.DueDate, h.ReturnDate, h.FineAmount)
		if err != nil {
			return err
		}
		h.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE borrowing_history SET user_id = ?, resource_id = ?, issue_date = ?, due_date = ?,
            return_date = ?, fine_amount = ?
        WHERE history_id = ?`,
		h.UserID, h.ResourceID, h.IssueDate, h.DueDate, h.ReturnDate, h.FineAmount, h.ID.Int64())
}

func (r *BorrowingHistoryRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "history_id", id)
}

func (r *BorrowingHistoryRepository) GetByID(ctx context.Context, id int64) (*BorrowingHistory, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+borrowingHistoryColumns+` FROM borrowing_history WHERE history_id = ?`, scanBorrowingHistory, id)
}

func (r *BorrowingHistoryRepository) GetByUserID(ctx context.Context, userID int64) ([]BorrowingHistory, error) {
	return queryAll(ctx, r.t, "get_by_user", `SELECT `+borrowingHistoryColumns+` FROM borrowing_history WHERE user_id = ?`, scanBorrowingHistory, userID)
}

func (r *BorrowingHistoryRepository) GetAll(ctx context.Context) ([]BorrowingHistory, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+borrowingHistoryColumns+` FROM borrowing_history`, scanBorrowingHistory)
}

func scanBorrowingHistory(row rowScanner) (BorrowingHistory, error) {
	var h BorrowingHistory
	err := row.Scan(rowID(&h.ID), number(&h.UserID), number(&h.ResourceID), text(&h.IssueDate), text(&h.DueDate),
		text(&h.ReturnDate), money(&h.FineAmount))
	return h, err
}
