package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hotel_reservations/internal/app"
	"hotel_reservations/internal/domain"
)

const maxBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Guest name, guest email and date ordering are business rules checked by the
// service; the tags here only cover what the boundary can reject on its own.
type createReservationRequest struct {
	HotelID       int64            `json:"hotelId" validate:"required,gt=0"`
	GuestName     string           `json:"guestName"`
	GuestEmail    string           `json:"guestEmail" validate:"omitempty,email,max=254"`
	CheckInDate   string           `json:"checkInDate" validate:"required"`
	CheckOutDate  string           `json:"checkOutDate" validate:"required"`
	RoomNumber    int              `json:"roomNumber" validate:"min=1"`
	PricePerNight *decimal.Decimal `json:"pricePerNight,omitempty"`
}

func (req createReservationRequest) toCommand() (app.CreateReservation, error) {
	in, err := parseDate(req.CheckInDate)
	if err != nil {
		return app.CreateReservation{}, fmt.Errorf("checkInDate: %w", err)
	}
	out, err := parseDate(req.CheckOutDate)
	if err != nil {
		return app.CreateReservation{}, fmt.Errorf("checkOutDate: %w", err)
	}
	return app.CreateReservation{
		HotelID:      req.HotelID,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		CheckInDate:  in,
		CheckOutDate: out,
		RoomNumber:   req.RoomNumber,
		NightlyRate:  req.PricePerNight,
	}, nil
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type hotelRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	City          string          `json:"city" validate:"required,max=100"`
	Address       string          `json:"address" validate:"required,max=300"`
	Phone         string          `json:"phone" validate:"omitempty,max=32"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
}

func (req hotelRequest) toHotel() domain.Hotel {
	return domain.Hotel{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Phone:       req.Phone,
		NightlyRate: req.PricePerNight,
	}
}

// parseDate accepts a bare calendar date or an RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD or RFC3339 date", s)
	}
	return t, nil
}

// decodeJSON reads a single JSON object into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fe.Field()+": "+fieldMessage(fe))
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum length is %s", fe.Param())
	default:
		return fmt.Sprintf("invalid %s field", fe.Field())
	}
}

