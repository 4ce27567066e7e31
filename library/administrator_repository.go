package library

import (
	"context"

	"github.com/rs/zerolog"
)

const administratorColumns = `admin_id, username, password, first_name, last_name, email, created_date, is_active`

type AdministratorRepository struct {
	t table
}

func NewAdministratorRepository(conn Conn, log zerolog.Logger) *AdministratorRepository {
	return &AdministratorRepository{t: newTable(conn, log, "administrators")}
}

func (r *AdministratorRepository) Save(ctx context.Context, a *Administrator) error {
	if a.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO administrators (username, password, first_name, last_name, email, created_date, is_active)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.Username, a.Password, a.FirstName, a.LastName, a.Email, a.CreatedDate, boolInt(a.IsActive))
		if err != nil {
			return err
		}
		a.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE administrators SET username = ?, password = ?, first_name = ?, last_name = ?,
            email = ?, created_date = ?, is_active = ?
        WHERE admin_id = ?`,
		a.Username, a.Password, a.FirstName, a.LastName, a.Email, a.CreatedDate, boolInt(a.IsActive), a.ID.Int64())
}

func (r *AdministratorRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "admin_id", id)
}

func (r *AdministratorRepository) GetByID(ctx context.Context, id int64) (*Administrator, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+administratorColumns+` FROM administrators WHERE admin_id = ?`, scanAdministrator, id)
}

func (r *AdministratorRepository) GetByUsername(ctx context.Context, username string) (*Administrator, error) {
	return queryOne(ctx, r.t, "get_by_username", `SELECT `+administratorColumns+` FROM administrators WHERE username = ?`, scanAdministrator, username)
}

func (r *AdministratorRepository) GetAll(ctx context.Context) ([]Administrator, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+administratorColumns+` FROM administrators`, scanAdministrator)
}

func scanAdministrator(row rowScanner) (Administrator, error) {
	var a Administrator
	err := row.Scan(rowID(&a.ID), text(&a.Username), text(&a.Password), text(&a.FirstName), text(&a.LastName),
		text(&a.Email), text(&a.CreatedDate), flag(&a.IsActive))
	return a, err
}
