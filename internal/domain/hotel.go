package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Hotel struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	City        string          `json:"city"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	NightlyRate decimal.Decimal `json:"pricePerNight"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsValid reports whether the hotel carries the fields a listing needs.
func (h Hotel) IsValid() bool {
	return strings.TrimSpace(h.Name) != "" &&
		strings.TrimSpace(h.City) != "" &&
		strings.TrimSpace(h.Address) != "" &&
		!h.NightlyRate.IsNegative()
}
