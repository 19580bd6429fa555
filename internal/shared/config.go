package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	LogFile     string

	// DefaultNightlyRate prices reservations when neither the request nor the hotel carries a rate.
	DefaultNightlyRate decimal.Decimal

	CatalogBase string
	CatalogKey  string
	CatalogRPS  int
	Workers     int
	ImportIDs   []int64
}

var defaultNightlyRate = decimal.NewFromInt(150000)

// Load reads the environment, after merging a local .env file when one exists.
// Variables already set in the process win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	c := Config{
		AppEnv:             env("APP_ENV", "prod"),
		HTTPAddr:           env("HTTP_ADDR", ":8080"),
		MetricsAddr:        env("METRICS_ADDR", ":9100"),
		MySQLDSN:           env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:          env("REDIS_ADDR", "localhost:6379"),
		RedisPass:          env("REDIS_PASSWORD", ""),
		RedisDB:            atoi("REDIS_DB", 0),
		CacheTTL:           time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		LogFile:            env("LOG_FILE", ""),
		DefaultNightlyRate: dec("DEFAULT_NIGHTLY_RATE", defaultNightlyRate),
		CatalogBase:        env("CATALOG_BASE_URL", ""),
		CatalogKey:         env("CATALOG_API_KEY", ""),
		CatalogRPS:         atoi("CATALOG_RPS", 5),
		Workers:            atoi("IMPORT_WORKERS", 8),
		ImportIDs:          ids("IMPORT_HOTEL_IDS"),
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func dec(k string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(k); v != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err == nil && !d.IsNegative() {
			return d
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a non-negative decimal, using default")
	}
	return def
}

// ids parses a comma separated id list, skipping blanks and junk.
func ids(k string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(k), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Str("key", k).Str("value", part).Msg("skipping invalid id")
			continue
		}
		out = append(out, id)
	}
	return out
}
