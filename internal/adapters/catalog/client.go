package catalog

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_reservations/internal/adapters/observability"
	"hotel_reservations/internal/domain"
)

const (
	maxAttempts = 4
	maxBody     = 1 << 20
)

var (
	ErrNotFound     = fmt.Errorf("catalog: %w", domain.ErrNotFound)
	ErrUnauthorized = fmt.Errorf("catalog: unauthorized: %w", domain.ErrUnavailable)
	ErrForbidden    = fmt.Errorf("catalog: forbidden: %w", domain.ErrUnavailable)
	ErrInactive     = fmt.Errorf("catalog: hotel not active: %w", domain.ErrUnavailable)
)

// Client reads hotel records from the upstream catalog API.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// GetHotel fetches {base}/hotels/{id}. Inactive or closed hotels come back as
// ErrInactive; a record carrying a different id is rejected.
func (c *Client) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/hotels/%d", c.base, id))
	if err != nil {
		return domain.Hotel{}, err
	}

	var env hotelEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Hotel{}, fmt.Errorf("catalog: decode hotel %d: %w", id, err)
	}
	rec := env.record()
	if rec.ID != 0 && rec.ID != id {
		return domain.Hotel{}, fmt.Errorf("catalog: asked for hotel %d, got %d", id, rec.ID)
	}
	if !rec.active() {
		return domain.Hotel{}, fmt.Errorf("%w: id %d status %q", ErrInactive, id, rec.Status)
	}
	return rec.toHotel(id), nil
}

// get performs a rate-limited GET and returns the body of a 200.
// 429 and transient 5xx are retried, honoring Retry-After when present.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-reservations/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("catalog", "get_hotel", 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
		} else {
			observability.ObserveExternal("catalog", "get_hotel", resp.StatusCode, time.Since(start))
			body, wait, err := readResponse(resp)
			if err == nil || !isRetryable(resp.StatusCode) {
				return body, err
			}
			lastErr = err
			if wait > 0 {
				if i == maxAttempts-1 || !sleepCtx(ctx, wait) {
					break
				}
				continue
			}
		}
		if i == maxAttempts-1 || !sleepCtx(ctx, backoff(i)) {
			break
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, lastErr
}

// readResponse drains and closes resp, mapping statuses onto the package errors.
func readResponse(resp *http.Response) ([]byte, time.Duration, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, 0, err
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, 0, nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, 0, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, 0, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, 0, ErrForbidden
	case isRetryable(resp.StatusCode):
		return nil, retryAfter(resp), fmt.Errorf("catalog: remote %d", resp.StatusCode)
	default:
		return nil, 0, fmt.Errorf("catalog: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(body[:min(len(body), 512)])))
	}
}

func isRetryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(float64(b[0])/255.0*0.5*float64(base))
}
