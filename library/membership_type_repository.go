package library

import (
	"context"

	"github.com/rs/zerolog"
)

const membershipTypeColumns = `membership_type_id, membership_name, duration_days, price, max_borrowing_limit,
        borrowing_duration_days, fine_per_day, description`

// MembershipTypeRepository persists the borrowing policies users subscribe to.
type MembershipTypeRepository struct {
	t table
}

func NewMembershipTypeRepository(conn Conn, log zerolog.Logger) *MembershipTypeRepository {
	return &MembershipTypeRepository{t: newTable(conn, log, "membership_types")}
}

func (r *MembershipTypeRepository) Save(ctx context.Context, m *MembershipType) error {
	if m.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO membership_types (membership_name, duration_days, price, max_borrowing_limit,
                borrowing_duration_days, fine_per_day, description)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.Name, m.DurationDays, m.Price, m.MaxBorrowingLimit, m.BorrowingDurationDays, m.FinePerDay, m.Description)
		if err != nil {
			return err
		}
		m.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE membership_types SET membership_name = ?, duration_days = ?, price = ?,
            max_borrowing_limit = ?, borrowing_duration_days = ?, fine_per_day = ?, description = ?
        WHERE membership_type_id = ?`,
		m.Name, m.DurationDays, m.Price, m.MaxBorrowingLimit, m.BorrowingDurationDays, m.FinePerDay, m.Description,
		m.ID.Int64())
}

func (r *MembershipTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "membership_type_id", id)
}

func (r *MembershipTypeRepository) GetByID(ctx context.Context, id int64) (*MembershipType, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+membershipTypeColumns+` FROM membership_types WHERE membership_type_id = ?`, scanMembershipType, id)
}

// GetByName finds a membership type by its unique name.
func (r *MembershipTypeRepository) GetByName(ctx context.Context, name string) (*MembershipType, error) {
	return queryOne(ctx, r.t, "get_by_name", `SELECT `+membershipTypeColumns+` FROM membership_types WHERE membership_name = ?`, scanMembershipType, name)
}

func (r *MembershipTypeRepository) GetAll(ctx context.Context) ([]MembershipType, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+membershipTypeColumns+` FROM membership_types`, scanMembershipType)
}

func scanMembershipType(row rowScanner) (MembershipType, error) {
	var m MembershipType
	err := row.Scan(rowID(&m.ID), text(&m.Name), number(&m.DurationDays), money(&m.Price), number(&m.MaxBorrowingLimit),
		number(&m.BorrowingDurationDays), money(&m.FinePerDay), text(&m.Description))
	return m, err
}
