package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reservations/internal/adapters/observability"
	"hotel_reservations/internal/domain"
)

// ImportService pulls hotel records from the upstream catalog into the directory.
type ImportService struct {
	catalog domain.CatalogClient
	repo    domain.HotelRepository
	cache   domain.Cache
	now     func() time.Time
}

func NewImportService(c domain.CatalogClient, r domain.HotelRepository, cache domain.Cache) *ImportService {
	return &ImportService{catalog: c, repo: r, cache: cache, now: time.Now}
}

// ImportHotel upserts one catalog hotel. Unknown or unavailable records are
// logged and skipped; anything else is returned.
func (s *ImportService) ImportHotel(ctx context.Context, id int64) error {
	h, err := s.catalog.GetHotel(ctx, id)
	if err != nil {
		if isMiss(err) {
			observability.ObserveImport("skipped")
			log.Warn().Int64("id", id).Err(err).Msg("catalog miss, skipping")
			s.invalidate(ctx, id)
			return nil
		}
		observability.ObserveImport("failed")
		return err
	}

	h = normalizeHotel(h)
	h.ID = id
	if !h.IsValid() {
		observability.ObserveImport("failed")
		return fmt.Errorf("%w: catalog hotel %d lacks name, city or address", domain.ErrInvalidHotel, id)
	}
	now := s.now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now

	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		observability.ObserveImport("failed")
		return fmt.Errorf("upsert hotel %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	observability.ObserveImport("imported")
	return nil
}

func (s *ImportService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
}

func isMiss(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnavailable)
}
