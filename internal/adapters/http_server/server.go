package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

func New() *Server {
	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// MountHandlers registers the hotel directory and reservation routes.
func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)

	s.mux.Route("/v1/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.createHotel)
		r.Get("/{id}", h.getHotel)
		r.Put("/{id}", h.updateHotel)
		r.Delete("/{id}", h.deleteHotel)
	})

	s.mux.Route("/v1/reservations", func(r chi.Router) {
		r.Get("/", h.listReservationsByEmail)
		r.Post("/", h.createReservation)
		// static segments win over {id} in chi's tree
		r.Get("/pending", h.listPendingReservations)
		r.Get("/hotel/{hotelId}", h.listReservationsByHotel)
		r.Get("/{id}", h.getReservation)
		r.Patch("/{id}/status", h.updateReservationStatus)
		r.Delete("/{id}", h.cancelReservation)
	})
}
