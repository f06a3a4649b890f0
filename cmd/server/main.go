// Command server runs the HTTP API: game name suggestions and
// similarity-based recommendations over a previously ingested catalog.
//
// The catalog is read from the SQLite store produced by cmd/ingest. The
// suggestion index is built in memory at startup from the search projection
// and stays immutable for the life of the process.
//
// @title       Game Recommendation API
// @version     1.0
// @description Similarity-based game recommendations and typo-tolerant name search over an ingested game catalog.
// @BasePath    /api/v1
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-gamerec-backend/docs"
	"github.com/tbourn/go-gamerec-backend/internal/config"
	httpapi "github.com/tbourn/go-gamerec-backend/internal/http"
	"github.com/tbourn/go-gamerec-backend/internal/observability"
	"github.com/tbourn/go-gamerec-backend/internal/repo"
	"github.com/tbourn/go-gamerec-backend/internal/search"
	"github.com/tbourn/go-gamerec-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	entries, err := repo.ListSearchEntries(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("loading search entries failed")
	}
	if len(entries) == 0 {
		log.Warn().Msg("search index is empty, run the ingest command to populate the catalog")
	}
	idx := search.NewIndex(entries, search.WithMaxResults(4*cfg.MaxSuggestions))
	log.Info().Int("entries", len(entries)).Msg("suggestion index built")

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, idx, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
