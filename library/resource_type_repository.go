package library

import (
	"context"

	"github.com/rs/zerolog"
)

const resourceTypeColumns = `resource_type_id, type_name, borrowing_duration_days, max_renewals, fine_per_day, description`

type ResourceTypeRepository struct {
	t table
}

func NewResourceTypeRepository(conn Conn, log zerolog.Logger) *ResourceTypeRepository {
	return &ResourceTypeRepository{t: newTable(conn, log, "resource_types")}
}

func (r *ResourceTypeRepository) Save(ctx context.Context, rt *ResourceType) error {
	if rt.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO resource_types (type_name, borrowing_duration_days, max_renewals, fine_per_day, description)
            VALUES (?, ?, ?, ?, ?)`,
			rt.Name, rt.BorrowingDurationDays, rt.MaxRenewals, rt.FinePerDay, rt.Description)
		if err != nil {
			return err
		}
		rt.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE resource_types SET type_name = ?, borrowing_duration_days = ?, max_renewals = ?,
            fine_per_day = ?, description = ?
        WHERE resource_type_id = ?`,
		rt.Name, rt.BorrowingDurationDays, rt.MaxRenewals, rt.FinePerDay, rt.Description, rt.ID.Int64())
}

func (r *ResourceTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "resource_type_id", id)
}

func (r *ResourceTypeRepository) GetByID(ctx context.Context, id int64) (*ResourceType, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+resourceTypeColumns+` FROM resource_types WHERE resource_type_id = ?`, scanResourceType, id)
}

func (r *ResourceTypeRepository) GetAll(ctx context.Context) ([]ResourceType, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+resourceTypeColumns+` FROM resource_types`, scanResourceType)
}

func scanResourceType(row rowScanner) (ResourceType, error) {
	var rt ResourceType
	err := row.Scan(rowID(&rt.ID), text(&rt.Name), number(&rt.BorrowingDurationDays), number(&rt.MaxRenewals),
		money(&rt.FinePerDay), text(&rt.Description))
	return rt, err
}
