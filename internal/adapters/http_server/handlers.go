package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_reservations/internal/app"
	"hotel_reservations/internal/domain"
)

type Handlers struct {
	Hotels       *app.HotelService
	Reservations *app.ReservationService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses. Unclassified errors
// are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrHotelNotFound):
		writeProblem(w, http.StatusNotFound, "Hotel Not Found", err.Error())
	case errors.Is(err, domain.ErrReservationNotFound):
		writeProblem(w, http.StatusNotFound, "Reservation Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidReservation):
		writeProblem(w, http.StatusBadRequest, "Invalid Reservation", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeProblem(w, http.StatusBadRequest, "Invalid Status", err.Error())
	case errors.Is(err, domain.ErrAlreadyCancelled):
		writeProblem(w, http.StatusBadRequest, "Already Cancelled", err.Error())
	case errors.Is(err, domain.ErrInvalidHotel):
		writeProblem(w, http.StatusBadRequest, "Invalid Hotel", err.Error())
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves a GET body with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// pathID parses a positive integer path parameter; on failure it has already
// written the 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	hotel, err := h.Hotels.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotel)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Hotel", err.Error())
		return
	}
	hotel, err := h.Hotels.CreateHotel(r.Context(), req.toHotel())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/hotels/"+strconv.FormatInt(hotel.ID, 10))
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Hotel", err.Error())
		return
	}
	hotel, err := h.Hotels.UpdateHotel(r.Context(), id, req.toHotel())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.Hotels.DeleteHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeProblem(w, http.StatusNotFound, "Hotel Not Found", "hotel not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- reservations ----

func (h *Handlers) listReservationsByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Email", "query parameter 'email' is required")
		return
	}
	out, err := h.Reservations.ListByGuestEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) listPendingReservations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reservations.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) listReservationsByHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r, "hotelId")
	if !ok {
		return
	}
	out, err := h.Reservations.ListByHotel(r.Context(), hotelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, v)
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Reservation", err.Error())
		return
	}
	cmd, err := req.toCommand()
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Reservation", err.Error())
		return
	}
	v, err := h.Reservations.Create(r.Context(), cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/reservations/"+strconv.FormatInt(v.ID, 10))
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) updateReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Status", err.Error())
		return
	}
	v, err := h.Reservations.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cancelled, err := h.Reservations.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !cancelled {
		writeProblem(w, http.StatusNotFound, "Reservation Not Found", "reservation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
