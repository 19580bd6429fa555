//go:build integration

package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"

	server "hotel_reservations/internal/adapters/http_server"
	redisad "hotel_reservations/internal/adapters/redis"
	"hotel_reservations/internal/app"
	mysqlrepo "hotel_reservations/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=hotels"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func call(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res
}

type reservation struct {
	ID         int64           `json:"id"`
	HotelName  *string         `json:"hotelName"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// ---------- the test ----------

func TestHTTP_EndToEnd_ReservationLifecycle(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)

	repo := mysqlrepo.New(db)
	cache := redisad.New(mr.Addr(), "", 0)
	hotels := app.NewHotelService(repo, cache, 0)
	reservations := app.NewReservationService(repo, repo, app.NewPricing(decimal.NewFromInt(150000)))

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Hotels: hotels, Reservations: reservations})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// a hotel with its own rate
	var hotel struct {
		ID int64 `json:"id"`
	}
	res := call(t, http.MethodPost, ts.URL+"/v1/hotels",
		`{"name":"Hotel E2E","city":"Cali","address":"Calle 1","pricePerNight":200000}`, &hotel)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create hotel: status %d", res.StatusCode)
	}

	var created reservation
	body := fmt.Sprintf(`{"hotelId":%d,"guestName":"Ana","guestEmail":"ana@example.com",`+
		`"checkInDate":"2026-05-01","checkOutDate":"2026-05-03","roomNumber":7}`, hotel.ID)
	res = call(t, http.MethodPost, ts.URL+"/v1/reservations", body, &created)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create reservation: status %d", res.StatusCode)
	}
	if created.Status != "Pending" || !created.TotalPrice.Equal(decimal.NewFromInt(400000)) {
		t.Fatalf("unexpected reservation: %+v", created)
	}

	var got reservation
	call(t, http.MethodGet, fmt.Sprintf("%s/v1/reservations/%d", ts.URL, created.ID), "", &got)
	if got.HotelName == nil || *got.HotelName != "Hotel E2E" {
		t.Fatalf("expected joined hotel name, got %+v", got)
	}

	var pending []reservation
	call(t, http.MethodGet, ts.URL+"/v1/reservations/pending", "", &pending)
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("pending: %+v", pending)
	}

	res = call(t, http.MethodPatch, fmt.Sprintf("%s/v1/reservations/%d/status", ts.URL, created.ID), `{"status":"confirmed"}`, &got)
	if res.StatusCode != http.StatusOK || got.Status != "Confirmed" {
		t.Fatalf("update status: %d %+v", res.StatusCode, got)
	}

	res = call(t, http.MethodDelete, fmt.Sprintf("%s/v1/reservations/%d", ts.URL, created.ID), "", nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel: status %d", res.StatusCode)
	}
	res = call(t, http.MethodDelete, fmt.Sprintf("%s/v1/reservations/%d", ts.URL, created.ID), "", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("second cancel: status %d", res.StatusCode)
	}

	var mine []reservation
	call(t, http.MethodGet, ts.URL+"/v1/reservations?email=ana@example.com", "", &mine)
	if len(mine) != 1 || mine[0].Status != "Cancelled" {
		t.Fatalf("by email: %+v", mine)
	}
}
