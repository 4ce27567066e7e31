package library

import (
	"context"

	"github.com/rs/zerolog"
)

const userColumns = `user_id, username, password, first_name, last_name, email, address, phone,
        balance, membership_type_id, registration_date, is_active`

// UserRepository persists users.
type UserRepository struct {
	t table
}

func NewUserRepository(conn Conn, log zerolog.Logger) *UserRepository {
	return &UserRepository{t: newTable(conn, log, "users")}
}

// Save inserts a new user and back-fills its ID, or overwrites an existing one.
func (r *UserRepository) Save(ctx context.Context, u *User) error {
	if u.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO users (username, password, first_name, last_name, email, address, phone,
            balance, membership_type_id, registration_date, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Username, u.Password, u.FirstName, u.LastName, u.Email, u.Address, u.Phone,
			u.Balance, u.MembershipTypeID, u.RegistrationDate, boolInt(u.IsActive))
		if err != nil {
			return err
		}
		u.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE users SET username = ?, password = ?, first_name = ?, last_name = ?, email = ?,
            address = ?, phone = ?, balance = ?, membership_type_id = ?, registration_date = ?, is_active = ?
        WHERE user_id = ?`,
		u.Username, u.Password, u.FirstName, u.LastName, u.Email,
		u.Address, u.Phone, u.Balance, u.MembershipTypeID, u.RegistrationDate, boolInt(u.IsActive),
		u.ID.Int64())
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "user_id", id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+userColumns+` FROM users WHERE user_id = ?`, scanUser, id)
}

// GetByUsername looks a user up by login name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return queryOne(ctx, r.t, "get_by_username", `SELECT `+userColumns+` FROM users WHERE username = ?`, scanUser, username)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]User, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+userColumns+` FROM users`, scanUser)
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(rowID(&u.ID), text(&u.Username), text(&u.Password), text(&u.FirstName), text(&u.LastName),
		text(&u.Email), text(&u.Address), text(&u.Phone), money(&u.Balance), number(&u.MembershipTypeID),
		text(&u.RegistrationDate), flag(&u.IsActive))
	return u, err
}
