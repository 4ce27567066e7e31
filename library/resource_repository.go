package library

import (
	"context"

	"github.com/rs/zerolog"
)

const resourceColumns = `resource_id, title, author, publisher, publication_year, isbn, category_id, resource_type_id,
        total_copies, available_copies, description, added_date, is_active`

// ResourceRepository persists catalogue entries. It does not guard
// available_copies; LibraryManager moves copies inside a transaction.
type ResourceRepository struct {
	t table
}

func NewResourceRepository(conn Conn, log zerolog.Logger) *ResourceRepository {
	return &ResourceRepository{t: newTable(conn, log, "resources")}
}

func (r *ResourceRepository) Save(ctx context.Context, res *Resource) error {
	if res.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO resources (title, author, publisher, publication_year, isbn, category_id,
                resource_type_id, total_copies, available_copies, description, added_date, is_active)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.Title, res.Author, res.Publisher, res.PublicationYear, res.ISBN, res.CategoryID,
			res.ResourceTypeID, res.TotalCopies, res.AvailableCopies, res.Description, res.AddedDate, boolInt(res.IsActive))
		if err != nil {
			return err
		}
		res.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE resources SET title = ?, author = ?, publisher = ?, publication_year = ?, isbn = ?,
            category_id = ?, resource_type_id = ?, total_copies = ?, available_copies = ?, description = ?,
            added_date = ?, is_active = ?
        WHERE resource_id = ?`,
		res.Title, res.Author, res.Publisher, res.PublicationYear, res.ISBN,
		res.CategoryID, res.ResourceTypeID, res.TotalCopies, res.AvailableCopies, res.Description,
		res.AddedDate, boolInt(res.IsActive), res.ID.Int64())
}

func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "resource_id", id)
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+resourceColumns+` FROM resources WHERE resource_id = ?`, scanResource, id)
}

func (r *ResourceRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]Resource, error) {
	return queryAll(ctx, r.t, "get_by_category", `SELECT `+resourceColumns+` FROM resources WHERE category_id = ?`, scanResource, categoryID)
}

func (r *ResourceRepository) GetAll(ctx context.Context) ([]Resource, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+resourceColumns+` FROM resources`, scanResource)
}

func scanResource(row rowScanner) (Resource, error) {
	var res Resource
	err := row.Scan(rowID(&res.ID), text(&res.Title), text(&res.Author), text(&res.Publisher), number(&res.PublicationYear),
		text(&res.ISBN), number(&res.CategoryID), number(&res.ResourceTypeID), number(&res.TotalCopies),
		number(&res.AvailableCopies), text(&res.Description), text(&res.AddedDate), flag(&res.IsActive))
	return res, err
}
