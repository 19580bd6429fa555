package domain

import "errors"

// ErrNotFound is returned by repositories when a row does not exist.
// Services translate it into one of the entity specific errors below.
var ErrNotFound = errors.New("not found")

var (
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidHotel        = errors.New("invalid hotel")
	ErrInvalidReservation  = errors.New("invalid reservation")
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
)

// ErrUnavailable marks an upstream record that exists but must not be
// imported: access was refused or the catalog withdrew it.
var ErrUnavailable = errors.New("record unavailable")
