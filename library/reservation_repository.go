package library

import (
	"context"

	"github.com/rs/zerolog"
)

const reservationColumns = `reservation_id, user_id, resource_id, reservation_date, expiry_date, is_fulfilled,
        is_cancelled, status`

type ReservationRepository struct {
	t table
}

func NewReservationRepository(conn Conn, log zerolog.Logger) *ReservationRepository {
	return &ReservationRepository{t: newTable(conn, log, "reservations")}
}

func (r *ReservationRepository) Save(ctx context.Context, res *Reservation) error {
	if res.ID.IsNew() {
		id, err := r.t.insert(ctx, `INSERT INTO reservations (user_id, resource_id, reservation_date, expiry_date,
                is_fulfilled, is_cancelled, status)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.UserID, res.ResourceID, res.ReservationDate, res.ExpiryDate,
			boolInt(res.IsFulfilled), boolInt(res.IsCancelled), res.Status)
		if err != nil {
			return err
		}
		res.ID = Existing(id)
		return nil
	}
	return r.t.update(ctx, `UPDATE reservations SET user_id = ?, resource_id = ?, reservation_date = ?, expiry_date = ?,
            is_fulfilled = ?, is_cancelled = ?, status = ?
        WHERE reservation_id = ?`,
		res.UserID, res.ResourceID, res.ReservationDate, res.ExpiryDate,
		boolInt(res.IsFulfilled), boolInt(res.IsCancelled), res.Status, res.ID.Int64())
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	return r.t.deleteByID(ctx, "reservation_id", id)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	return queryOne(ctx, r.t, "get", `SELECT `+reservationColumns+` FROM reservations WHERE reservation_id = ?`, scanReservation, id)
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID int64) ([]Reservation, error) {
	return queryAll(ctx, r.t, "get_by_user", `SELECT `+reservationColumns+` FROM reservations WHERE user_id = ?`, scanReservation, userID)
}

func (r *ReservationRepository) GetByResourceID(ctx context.Context, resourceID int64) ([]Reservation, error) {
	return queryAll(ctx, r.t, "get_by_resource", `SELECT `+reservationColumns+` FROM reservations WHERE resource_id = ?`, scanReservation, resourceID)
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]Reservation, error) {
	return queryAll(ctx, r.t, "get_all", `SELECT `+reservationColumns+` FROM reservations`, scanReservation)
}

func scanReservation(row rowScanner) (Reservation, error) {
	var res Reservation
	err := row.Scan(rowID(&res.ID), number(&res.UserID), number(&res.ResourceID), text(&res.ReservationDate),
		text(&res.ExpiryDate), flag(&res.IsFulfilled), flag(&res.IsCancelled), text(&res.Status))
	return res, err
}
