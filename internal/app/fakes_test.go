package app_test

import (
	"context"
	"sort"
	"sync"

	"hotel_reservations/internal/domain"
)

// ---- fakes ----

type fakeHotels struct {
	mu     sync.Mutex
	items  map[int64]domain.Hotel
	nextID int64
	gets   int
	err    error
}

func newFakeHotels(hs ...domain.Hotel) *fakeHotels {
	f := &fakeHotels{items: map[int64]domain.Hotel{}}
	for _, h := range hs {
		f.items[h.ID] = h
		if h.ID > f.nextID {
			f.nextID = h.ID
		}
	}
	return f
}

func (f *fakeHotels) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	h.ID = f.nextID
	f.items[h.ID] = *h
	return nil
}

func (f *fakeHotels) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[h.ID]; !ok {
		return domain.ErrNotFound
	}
	f.items[h.ID] = h
	return nil
}

func (f *fakeHotels) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[h.ID] = h
	return nil
}

func (f *fakeHotels) DeleteHotel(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeHotels) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return domain.Hotel{}, f.err
	}
	h, ok := f.items[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Hotel, 0, len(f.items))
	for _, h := range f.items {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeReservations struct {
	mu      sync.Mutex
	items   map[int64]domain.Reservation
	names   map[int64]string // hotel id -> name, emulates the join
	nextID  int64
	adds    int
	updates int
	err     error
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{items: map[int64]domain.Reservation{}, names: map[int64]string{}}
}

func (f *fakeReservations) view(r domain.Reservation) domain.ReservationView {
	v := domain.ReservationView{Reservation: r}
	if n, ok := f.names[r.HotelID]; ok {
		v.HotelName = &n
	}
	return v
}

func (f *fakeReservations) AddReservation(ctx context.Context, r *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.adds++
	f.nextID++
	r.ID = f.nextID
	f.items[r.ID] = *r
	return nil
}

func (f *fakeReservations) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.updates++
	f.items[r.ID] = r
	return nil
}

func (f *fakeReservations) GetReservation(ctx context.Context, id int64) (domain.ReservationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return domain.ReservationView{}, domain.ErrNotFound
	}
	return f.view(r), nil
}

func (f *fakeReservations) list(match func(domain.Reservation) bool) []domain.ReservationView {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.ReservationView{}
	for _, r := range f.items {
		if match(r) {
			out = append(out, f.view(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeReservations) ListByGuestEmail(ctx context.Context, email string) ([]domain.ReservationView, error) {
	return f.list(func(r domain.Reservation) bool { return r.GuestEmail == email }), nil
}

func (f *fakeReservations) ListByHotel(ctx context.Context, hotelID int64) ([]domain.ReservationView, error) {
	return f.list(func(r domain.Reservation) bool { return r.HotelID == hotelID }), nil
}

func (f *fakeReservations) ListByStatus(ctx context.Context, st domain.ReservationStatus) ([]domain.ReservationView, error) {
	return f.list(func(r domain.Reservation) bool { return r.Status == st }), nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Hotel:
		*d = v.(domain.Hotel)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

type fakeCatalog struct {
	hotels map[int64]domain.Hotel
	err    error
}

func (c *fakeCatalog) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	if c.err != nil {
		return domain.Hotel{}, c.err
	}
	h, ok := c.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}
