package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hotel_reservations/internal/domain"
)

// hotelRecord is the catalog's hotel document. Some tenants wrap it in
// {"data": {...}}; both shapes decode through hotelEnvelope.
type hotelRecord struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	City          string           `json:"city"`
	Address       address          `json:"address"`
	Phone         string           `json:"phone"`
	PricePerNight *decimal.Decimal `json:"pricePerNight"`
	Status        string           `json:"status"` // active|inactive|closed
}

type hotelEnvelope struct {
	Data *hotelRecord `json:"data"`
	hotelRecord
}

func (e hotelEnvelope) record() hotelRecord {
	if e.Data != nil {
		return *e.Data
	}
	return e.hotelRecord
}

// address is either a single line or a structured object.
type address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
	City  string `json:"city"`
}

func (a *address) UnmarshalJSON(b []byte) error {
	var line string
	if err := json.Unmarshal(b, &line); err == nil {
		a.Line1 = line
		return nil
	}
	type plain address
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	*a = address(p)
	return nil
}

func (a address) String() string {
	var parts []string
	for _, s := range []string{a.Line1, a.Line2} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (r hotelRecord) active() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "", "active", "open":
		return true
	}
	return false
}

// toHotel maps the record onto the directory entity. A missing price leaves
// the rate at zero so reservations fall back to the configured default.
func (r hotelRecord) toHotel(id int64) domain.Hotel {
	h := domain.Hotel{
		ID:      id,
		Name:    strings.TrimSpace(r.Name),
		City:    strings.TrimSpace(r.City),
		Address: r.Address.String(),
		Phone:   strings.TrimSpace(r.Phone),
	}
	if h.City == "" {
		h.City = strings.TrimSpace(r.Address.City)
	}
	if r.PricePerNight != nil {
		h.NightlyRate = *r.PricePerNight
	}
	return h
}
