package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reservations/internal/domain"
)

type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func (s *HotelService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx)
}

func (s *HotelService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, fmt.Errorf("%w: id %d", domain.ErrHotelNotFound, id)
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *HotelService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h = normalizeHotel(h)
	if !h.IsValid() {
		return domain.Hotel{}, fmt.Errorf("%w: name, city and address are required", domain.ErrInvalidHotel)
	}
	now := s.now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	if err := s.repo.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	log.Info().Int64("id", h.ID).Str("name", h.Name).Msg("hotel created")
	return h, nil
}

func (s *HotelService) UpdateHotel(ctx context.Context, id int64, in domain.Hotel) (domain.Hotel, error) {
	cur, err := s.repo.GetHotel(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, fmt.Errorf("%w: id %d", domain.ErrHotelNotFound, id)
	}
	if err != nil {
		return domain.Hotel{}, err
	}

	in = normalizeHotel(in)
	cur.Name, cur.City, cur.Address, cur.Phone, cur.NightlyRate = in.Name, in.City, in.Address, in.Phone, in.NightlyRate
	if !cur.IsValid() {
		return domain.Hotel{}, fmt.Errorf("%w: name, city and address are required", domain.ErrInvalidHotel)
	}
	cur.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateHotel(ctx, cur); err != nil {
		return domain.Hotel{}, fmt.Errorf("update hotel %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	return cur, nil
}

// DeleteHotel reports false when the hotel does not exist. Its reservations
// are removed by the store's cascade.
func (s *HotelService) DeleteHotel(ctx context.Context, id int64) (bool, error) {
	if _, err := s.repo.GetHotel(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return false, fmt.Errorf("delete hotel %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	log.Info().Int64("id", id).Msg("hotel deleted")
	return true, nil
}

func (s *HotelService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
}

func normalizeHotel(h domain.Hotel) domain.Hotel {
	h.Name = strings.TrimSpace(h.Name)
	h.City = strings.TrimSpace(h.City)
	h.Address = strings.TrimSpace(h.Address)
	h.Phone = strings.TrimSpace(h.Phone)
	return h
}
