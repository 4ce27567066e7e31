package library

import (
	"context"

	"github.com/rs/zerolog"
)

const fundRequestColumns = `request_id, user_id, requested_amount, request_date, status, admin_id, approval_date, admin_notes`

// FundRequestRepository persists balance top-up requests. An AdminID of 0 is
// written as NULL so the administrators foreign key holds.
type FundRequestRepository struct {
	t table
}

func NewFundRequestRepository(conn Conn, log zerolog.Logger) *FundRequestRepository {
	return &FundRequestRepository{t: newTable(conn, log, "fund_requests")}
}

func (r *FundRequestRepository) Save(ctx context.Context, fr *FundRequest) error {
	if fr.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO fund_requests (user_id, requested_amount, request_date, status, admin_id,
                approval_date, admin_notes)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fr.UserID, fr.RequestedAmount, fr.RequestDate, fr.Status, optionalID(fr.AdminID),
			fr.ApprovalDate, fr.AdminNotes)
		if err != nil {
			return err
		}
		fr.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE fund_requests SET user_id = ?, requested_amount = ?, request_date = ?, status = ?,
            admin_id = ?, approval_date = ?, admin_notes = ?
        WHERE request_id = ?`,
		fr.UserID, fr.RequestedAmount, fr.RequestDate, fr.Status,
		optionalID(fr.AdminID), fr.ApprovalDate, fr.AdminNotes, fr.ID.Int64())
}

func (r *FundRequestRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "request_id", id)
}

func (r *FundRequestRepository) GetByID(ctx context.Context, id int64) (*FundRequest, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+fundRequestColumns+` FROM fund_requests WHERE request_id = ?`, scanFundRequest, id)
}

func (r *FundRequestRepository) GetByUserID(ctx context.Context, userID int64) ([]FundRequest, error) {
	return queryAll(ctx, r.t, "get_by_user", `SELECT `+fundRequestColumns+` FROM fund_requests WHERE user_id = ?`, scanFundRequest, userID)
}

func (r *FundRequestRepository) GetAll(ctx context.Context) ([]FundRequest, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+fundRequestColumns+` FROM fund_requests`, scanFundRequest)
}

func scanFundRequest(row rowScanner) (FundRequest, error) {
	var fr FundRequest
	err := row.Scan(rowID(&fr.ID), number(&fr.UserID), money(&fr.RequestedAmount), text(&fr.RequestDate), text(&fr.Status),
		number(&fr.AdminID), text(&fr.ApprovalDate), text(&fr.AdminNotes))
	return fr, err
}
