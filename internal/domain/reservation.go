package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Reservation struct {
	ID           int64             `json:"id"`
	HotelID      int64             `json:"hotelId"`
	GuestName    string            `json:"guestName"`
	GuestEmail   string            `json:"guestEmail"`
	CheckInDate  time.Time         `json:"checkInDate"`
	CheckOutDate time.Time         `json:"checkOutDate"`
	RoomNumber   int               `json:"roomNumber"`
	Status       ReservationStatus `json:"status"`
	TotalPrice   decimal.Decimal   `json:"totalPrice"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ReservationView is the read-side result. HotelName is set only when the
// hotel was loaded together with the reservation: the create flow attaches
// the hotel it already fetched, and store reads join the hotels table.
type ReservationView struct {
	Reservation
	HotelName *string `json:"hotelName,omitempty"`
}

// Validate checks the guest fields and date ordering. It has no side effects.
func (r Reservation) Validate() error {
	var problems []string
	if strings.TrimSpace(r.GuestName) == "" {
		problems = append(problems, "guest name is required")
	}
	if strings.TrimSpace(r.GuestEmail) == "" {
		problems = append(problems, "guest email is required")
	}
	if !DateOf(r.CheckOutDate).After(DateOf(r.CheckInDate)) {
		problems = append(problems, "check-out date must be after check-in date")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidReservation, strings.Join(problems, "; "))
	}
	return nil
}

// Nights returns the number of nights the reservation spans.
func (r Reservation) Nights() int { return Nights(r.CheckInDate, r.CheckOutDate) }
