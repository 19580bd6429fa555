package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateOf drops the time of day, keeping the calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights is the whole-day difference between two calendar dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(DateOf(checkOut).Sub(DateOf(checkIn)).Hours() / 24)
}

// TotalPrice is nights × rate.
func TotalPrice(checkIn, checkOut time.Time, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(Nights(checkIn, checkOut))))
}
