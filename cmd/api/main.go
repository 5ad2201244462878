package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/adapters/notify"
	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/adapters/redisfeed"
	"hotel_directory/internal/app"
	"hotel_directory/internal/shared"
	mysqlrepo "hotel_directory/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	feed := redisfeed.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.ChangeChannel)
	repo := mysqlrepo.New(db, feed)
	store := app.NewStore(repo, feed, notify.NewLog(log.Logger), log.Logger)
	if err := store.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("store startup failed")
	}
	defer store.Close()

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Store: store})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
