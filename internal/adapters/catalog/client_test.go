package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotel_reservations/internal/adapters/catalog"
	"hotel_reservations/internal/domain"
)

func newClient(t *testing.T, h http.Handler) *catalog.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := catalog.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_GetHotel_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/hotels/2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 2, "name": "Hotel Medellín", "city": "Medellín",
				"address": "Avenida Paseo Peatonal", "phone": "604-5678901", "pricePerNight": 180000,
			})
		}
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetHotel(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != 2 || got.Name != "Hotel Medellín" || got.Address != "Avenida Paseo Peatonal" {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if !got.NightlyRate.Equal(decimal.NewFromInt(180000)) {
		t.Fatalf("unexpected rate %s", got.NightlyRate)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetHotel_EnvelopeAndStructuredAddress(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":3,"name":" Hotel Cartagena ","status":"Active",
			"address":{"line1":"Centro Histórico","line2":"Calle 10","city":"Cartagena"},
			"pricePerNight":"320000.00"}}`))
	}))

	got, err := cl.GetHotel(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Hotel Cartagena" || got.City != "Cartagena" || got.Address != "Centro Histórico, Calle 10" {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if !got.NightlyRate.Equal(decimal.NewFromInt(320000)) {
		t.Fatalf("unexpected rate %s", got.NightlyRate)
	}
}

func TestClient_GetHotel_MissingPriceLeavesZeroRate(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Hotel Santa Marta","city":"Santa Marta","address":"Frente al mar"}`))
	}))
	got, err := cl.GetHotel(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != 4 || !got.NightlyRate.IsZero() {
		t.Fatalf("unexpected hotel: %+v", got)
	}
}

func TestClient_GetHotel_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, "", domain.ErrNotFound},
		{"gone", http.StatusGone, "", domain.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, "", catalog.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "", catalog.ErrForbidden},
		{"inactive", http.StatusOK, `{"id":1,"name":"X","city":"Y","address":"Z","status":"closed"}`, catalog.ErrInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			_, err := cl.GetHotel(context.Background(), 1)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_DeniedAndInactiveAreUnavailable(t *testing.T) {
	for _, err := range []error{catalog.ErrUnauthorized, catalog.ErrForbidden, catalog.ErrInactive} {
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("%v should wrap domain.ErrUnavailable", err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%v should not be a not-found", err)
		}
	}
}

func TestClient_GetHotel_IDMismatch(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":9,"name":"X","city":"Y","address":"Z"}`))
	}))
	_, err := cl.GetHotel(context.Background(), 1)
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected a hard error, got %v", err)
	}
}

func TestClient_GetHotel_GivesUpAfterRetries(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cl.GetHotel(ctx, 1); err == nil {
		t.Fatalf("expected error after retries")
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Fatalf("expected 4 attempts, got %d", hits)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := catalog.New("", "k", 1); err == nil {
		t.Fatalf("expected error for empty base")
	}
}
