// Command ingest performs a full catalog refresh: it pulls game metadata,
// attribute lookup tables, and cover art references from the provider,
// resolves and denormalizes them, and rebuilds the SQLite stores that the
// server reads at startup.
//
// The refresh is destructive: prior catalog contents are dropped once the new
// snapshot has been fetched. Run it on a schedule (cron) or manually after
// provider credentials change.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-gamerec-backend/internal/config"
	"github.com/tbourn/go-gamerec-backend/internal/igdb"
	"github.com/tbourn/go-gamerec-backend/internal/ingest"
	"github.com/tbourn/go-gamerec-backend/internal/repo"
	"github.com/tbourn/go-gamerec-backend/internal/sysutil"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.Provider.ClientID == "" || cfg.Provider.ClientSecret == "" {
		log.Fatal().Msg("IGDB_CLIENT_ID and IGDB_CLIENT_SECRET must be set")
	}

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

	// SIGINT/SIGTERM cancel the refresh; a partially cleared store is
	// recovered by re-running the command.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := igdb.NewClient(cfg.Provider)
	pipeline := ingest.New(db, client, cfg.Ingest)

	start := time.Now()
	n, err := pipeline.Refresh(ctx)
	if err != nil {
		log.Fatal().Err(err).Stringer("state", pipeline.State()).Msg("catalog refresh failed")
	}
	log.Info().
		Int("games", n).
		Dur("elapsed", time.Since(start)).
		Msg("catalog refreshed")
}
