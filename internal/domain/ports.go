package domain

import "context"

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h *Hotel) error
	UpdateHotel(ctx context.Context, h Hotel) error
	UpsertHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id int64) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
}

// ReservationRepository reads return the hotel name joined in when the hotel row exists.
type ReservationRepository interface {
	AddReservation(ctx context.Context, r *Reservation) error
	UpdateReservation(ctx context.Context, r Reservation) error

	GetReservation(ctx context.Context, id int64) (ReservationView, error)
	ListByGuestEmail(ctx context.Context, email string) ([]ReservationView, error)
	ListByHotel(ctx context.Context, hotelID int64) ([]ReservationView, error)
	ListByStatus(ctx context.Context, st ReservationStatus) ([]ReservationView, error)
}

// CatalogClient returns ErrNotFound for unknown ids and ErrUnavailable for
// records that may not be imported.
type CatalogClient interface {
	GetHotel(ctx context.Context, id int64) (Hotel, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
