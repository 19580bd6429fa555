package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hotel_reservations/internal/domain"
)

// Pricing resolves the nightly rate for a stay and totals it.
type Pricing struct {
	DefaultRate decimal.Decimal
}

func NewPricing(defaultRate decimal.Decimal) Pricing {
	return Pricing{DefaultRate: defaultRate}
}

// Rate picks the caller override first, then the hotel's own rate when set,
// then the configured default. The hotel step is an addition: the booking
// form only ever knew the override and the default, so hotels with no stored
// rate still price exactly as before.
func (p Pricing) Rate(override *decimal.Decimal, h domain.Hotel) (decimal.Decimal, error) {
	if override != nil {
		if override.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: nightly rate must not be negative", domain.ErrInvalidReservation)
		}
		return *override, nil
	}
	if h.NightlyRate.IsPositive() {
		return h.NightlyRate, nil
	}
	return p.DefaultRate, nil
}

func (p Pricing) Total(checkIn, checkOut time.Time, rate decimal.Decimal) decimal.Decimal {
	return domain.TotalPrice(checkIn, checkOut, rate)
}
