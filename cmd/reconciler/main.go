package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/adapters/redisfeed"
	"hotel_directory/internal/app"
	"hotel_directory/internal/shared"
	mysqlrepo "hotel_directory/internal/storage/mysql"
)

// Recomputes the occupancy triple for every establishment. Meant to run
// as a cron job; each update publishes a change event so live API
// replicas pick up the fresh numbers.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.Workers).
		Int("rps", cfg.GatewayRPS).
		Msg("reconciler starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	feed := redisfeed.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.ChangeChannel)
	repo := mysqlrepo.New(db, feed)

	// no change feed and no user notifications here: this is batch work
	store := app.NewStore(repo, nil, nil, log.Logger)
	store.RefreshAll(ctx)
	if msg := store.Err(); msg != "" {
		log.Fatal().Str("err", msg).Msg("initial load failed")
	}

	rl := rate.NewLimiter(rate.Limit(cfg.GatewayRPS), cfg.GatewayRPS)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, e := range store.Snapshot() {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := rl.Wait(ctx); err != nil {
				log.Warn().Int64("id", id).Err(err).Msg("rate limiter interrupted")
				return
			}
			store.ReconcileStats(ctx, id)
			log.Info().Int64("id", id).Msg("occupancy reconciled")
		}(e.ID)
	}

	wg.Wait()
	log.Info().Msg("reconciliation completed")
}
