package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReservationStatus is persisted as its integer code.
type ReservationStatus int

const (
	StatusPending ReservationStatus = iota
	StatusConfirmed
	StatusCancelled
)

var statusNames = [...]string{
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusCancelled: "Cancelled",
}

func (s ReservationStatus) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("ReservationStatus(%d)", int(s))
}

func (s ReservationStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

// StatusNames lists the accepted status names in code order.
func StatusNames() []string {
	return append([]string(nil), statusNames[:]...)
}

// ParseReservationStatus matches one of the three status names, ignoring case
// and surrounding whitespace. Numeric codes are not accepted.
func ParseReservationStatus(name string) (ReservationStatus, error) {
	n := strings.TrimSpace(name)
	for i, s := range statusNames {
		if strings.EqualFold(n, s) {
			return ReservationStatus(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not valid, use one of: %s",
		ErrInvalidStatus, name, strings.Join(statusNames[:], ", "))
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReservationStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	v, err := ParseReservationStatus(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
