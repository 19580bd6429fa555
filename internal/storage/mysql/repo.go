package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel_reservations/internal/domain"
)

// Repo implements domain.HotelRepository and domain.ReservationRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type scanner interface {
	Scan(dest ...any) error
}

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.City, h.Address, h.Phone, h.NightlyRate, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID, h.Name, h.City, h.Address, h.Phone, h.NightlyRate, h.CreatedAt, h.UpdatedAt)
	return err
}

// UpdateHotel does not report missing rows: MySQL counts changed rows, not
// matched ones, so callers check existence first.
func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.City, h.Address, h.Phone, h.NightlyRate, h.UpdatedAt, h.ID)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelCols+"WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, selectHotelCols+"ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	err := s.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Phone, &h.NightlyRate, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// ---- reservations ----

func (r *Repo) AddReservation(ctx context.Context, rv *domain.Reservation) error {
	res, err := r.db.ExecContext(ctx, insertReservationSQL,
		rv.HotelID,
		rv.GuestName,
		rv.GuestEmail,
		rv.CheckInDate,
		rv.CheckOutDate,
		rv.RoomNumber,
		int(rv.Status),
		rv.TotalPrice,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = id
	return nil
}

// UpdateReservation is last-writer-wins. Like UpdateHotel it does not
// report missing rows.
func (r *Repo) UpdateReservation(ctx context.Context, rv domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, updateReservationSQL, int(rv.Status), rv.UpdatedAt, rv.ID)
	return err
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.ReservationView, error) {
	v, err := scanReservation(r.db.QueryRowContext(ctx, selectReservationCols+"WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReservationView{}, domain.ErrNotFound
	}
	return v, err
}

func (r *Repo) ListByGuestEmail(ctx context.Context, email string) ([]domain.ReservationView, error) {
	return r.listReservations(ctx, selectReservationCols+"WHERE r.guest_email = ? ORDER BY r.id", email)
}

func (r *Repo) ListByHotel(ctx context.Context, hotelID int64) ([]domain.ReservationView, error) {
	return r.listReservations(ctx, selectReservationCols+"WHERE r.hotel_id = ? ORDER BY r.id", hotelID)
}

func (r *Repo) ListByStatus(ctx context.Context, st domain.ReservationStatus) ([]domain.ReservationView, error) {
	return r.listReservations(ctx, selectReservationCols+"WHERE r.status = ? ORDER BY r.id", int(st))
}

func (r *Repo) listReservations(ctx context.Context, q string, args ...any) ([]domain.ReservationView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReservationView{}
	for rows.Next() {
		v, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReservation(s scanner) (domain.ReservationView, error) {
	var (
		v         domain.ReservationView
		status    int
		hotelName sql.NullString
	)
	if err := s.Scan(
		&v.ID,
		&v.HotelID,
		&v.GuestName,
		&v.GuestEmail,
		&v.CheckInDate,
		&v.CheckOutDate,
		&v.RoomNumber,
		&status,
		&v.TotalPrice,
		&v.CreatedAt,
		&v.UpdatedAt,
		&hotelName,
	); err != nil {
		return domain.ReservationView{}, err
	}

	v.Status = domain.ReservationStatus(status)
	if !v.Status.Valid() {
		return domain.ReservationView{}, fmt.Errorf("reservation %d: unknown status code %d", v.ID, status)
	}
	if hotelName.Valid {
		n := hotelName.String
		v.HotelName = &n
	}
	return v, nil
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
