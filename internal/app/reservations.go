package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotel_reservations/internal/adapters/observability"
	"hotel_reservations/internal/domain"
)

type CreateReservation struct {
	HotelID      int64
	GuestName    string
	GuestEmail   string
	CheckInDate  time.Time
	CheckOutDate time.Time
	RoomNumber   int
	NightlyRate  *decimal.Decimal // optional override
}

type ReservationService struct {
	hotels  domain.HotelRepository
	repo    domain.ReservationRepository
	pricing Pricing
	now     func() time.Time

	// Cancel and UpdateStatus are read-modify-write; writers of the same id
	// are serialized within this process. Other processes still race.
	locks [64]sync.Mutex
}

func NewReservationService(h domain.HotelRepository, r domain.ReservationRepository, p Pricing) *ReservationService {
	return &ReservationService{hotels: h, repo: r, pricing: p, now: time.Now}
}

func (s *ReservationService) lock(id int64) func() {
	m := &s.locks[uint64(id)%uint64(len(s.locks))]
	m.Lock()
	return m.Unlock
}

func (s *ReservationService) Create(ctx context.Context, in CreateReservation) (domain.ReservationView, error) {
	// 1) The hotel must exist before anything is validated or written.
	hotel, err := s.getHotel(ctx, in.HotelID)
	if err != nil {
		return domain.ReservationView{}, err
	}

	// 2) Candidate in Pending.
	now := s.now().UTC()
	r := domain.Reservation{
		HotelID:      in.HotelID,
		GuestName:    in.GuestName,
		GuestEmail:   in.GuestEmail,
		CheckInDate:  domain.DateOf(in.CheckInDate),
		CheckOutDate: domain.DateOf(in.CheckOutDate),
		RoomNumber:   in.RoomNumber,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3) Validate.
	if err := r.Validate(); err != nil {
		log.Warn().Int64("hotel_id", in.HotelID).Err(err).Msg("reservation rejected")
		return domain.ReservationView{}, err
	}

	// 4) Price.
	rate, err := s.pricing.Rate(in.NightlyRate, hotel)
	if err != nil {
		return domain.ReservationView{}, err
	}
	r.TotalPrice = s.pricing.Total(r.CheckInDate, r.CheckOutDate, rate)

	// 5) Persist.
	if err := s.repo.AddReservation(ctx, &r); err != nil {
		return domain.ReservationView{}, fmt.Errorf("add reservation: %w", err)
	}
	observability.ObserveReservation("created")
	observability.ObserveBooking(r.Nights(), r.TotalPrice.InexactFloat64())
	log.Info().
		Int64("id", r.ID).
		Int64("hotel_id", r.HotelID).
		Int("nights", r.Nights()).
		Str("rate", rate.String()).
		Str("total", r.TotalPrice.String()).
		Msg("reservation created")

	// 6) The hotel is already in hand; attach its name.
	name := hotel.Name
	return domain.ReservationView{Reservation: r, HotelName: &name}, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (domain.ReservationView, error) {
	v, err := s.repo.GetReservation(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ReservationView{}, fmt.Errorf("%w: id %d", domain.ErrReservationNotFound, id)
	}
	return v, err
}

// ListByGuestEmail matches the email exactly; an unknown email yields an empty list.
func (s *ReservationService) ListByGuestEmail(ctx context.Context, email string) ([]domain.ReservationView, error) {
	return s.repo.ListByGuestEmail(ctx, email)
}

func (s *ReservationService) ListByHotel(ctx context.Context, hotelID int64) ([]domain.ReservationView, error) {
	hotel, err := s.getHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].HotelName == nil {
			name := hotel.Name
			out[i].HotelName = &name
		}
	}
	return out, nil
}

func (s *ReservationService) ListPending(ctx context.Context) ([]domain.ReservationView, error) {
	return s.repo.ListByStatus(ctx, domain.StatusPending)
}

// Cancel reports false when the reservation does not exist. Cancelling twice
// is a business error.
func (s *ReservationService) Cancel(ctx context.Context, id int64) (bool, error) {
	unlock := s.lock(id)
	defer unlock()

	v, err := s.repo.GetReservation(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Int64("id", id).Msg("cancel: reservation not found")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if v.Status == domain.StatusCancelled {
		return false, fmt.Errorf("%w: id %d", domain.ErrAlreadyCancelled, id)
	}

	v.Status = domain.StatusCancelled
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateReservation(ctx, v.Reservation); err != nil {
		return false, fmt.Errorf("update reservation %d: %w", id, err)
	}
	observability.ObserveReservation("cancelled")
	log.Info().Int64("id", id).Msg("reservation cancelled")
	return true, nil
}

// UpdateStatus overwrites the status with any recognized value, including
// leaving or re-entering Cancelled. Only Cancel guards against re-cancelling.
func (s *ReservationService) UpdateStatus(ctx context.Context, id int64, status string) (domain.ReservationView, error) {
	unlock := s.lock(id)
	defer unlock()

	v, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.ReservationView{}, err
	}
	st, err := domain.ParseReservationStatus(status)
	if err != nil {
		return domain.ReservationView{}, err
	}

	prev := v.Status
	v.Status = st
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateReservation(ctx, v.Reservation); err != nil {
		return domain.ReservationView{}, fmt.Errorf("update reservation %d: %w", id, err)
	}
	observability.ObserveReservation("status_changed")
	log.Info().Int64("id", id).Stringer("from", prev).Stringer("to", st).Msg("reservation status updated")
	return v, nil
}

func (s *ReservationService) getHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := s.hotels.GetHotel(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Int64("hotel_id", id).Msg("hotel not found")
		return domain.Hotel{}, fmt.Errorf("%w: id %d", domain.ErrHotelNotFound, id)
	}
	return h, err
}
