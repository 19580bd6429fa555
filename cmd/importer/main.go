package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_reservations/internal/adapters/catalog"
	"hotel_reservations/internal/adapters/observability"
	redisad "hotel_reservations/internal/adapters/redis"
	"hotel_reservations/internal/app"
	"hotel_reservations/internal/shared"
	mysqlrepo "hotel_reservations/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)

	log.Info().
		Str("base", cfg.CatalogBase).
		Int("workers", cfg.Workers).
		Int("hotels", len(cfg.ImportIDs)).
		Msg("importer starting")

	if len(cfg.ImportIDs) == 0 {
		log.Warn().Msg("IMPORT_HOTEL_IDS is empty, nothing to import")
		return
	}
	if cfg.CatalogKey == "" {
		log.Warn().Msg("CATALOG_API_KEY is empty")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := catalog.New(cfg.CatalogBase, cfg.CatalogKey, cfg.CatalogRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	imp := app.NewImportService(client, mysqlrepo.New(db), cache)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)

	for _, id := range cfg.ImportIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := imp.ImportHotel(ctx, hotelID); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", hotelID).Err(err).Msg("import failed")
				return
			}
			log.Info().Int64("id", hotelID).Msg("import ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int64("failed", failed.Load()).Msg("import completed")
}
