package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microblog/internal/api"
	"microblog/internal/config"
	"microblog/internal/mediafiles"
	"microblog/internal/platform/logger"
	"microblog/internal/seed"
	"microblog/internal/store"
	"microblog/internal/store/postgres"
	"microblog/internal/store/sqlite"
)

func main() {
	log := logger.New("microblog-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Microblog service starting…")

	// -------- Storage layer -----------------
	ctx := context.Background()
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres unavailable")
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Schema setup failed")
		}
		st = postgres.NewWithDB(db)
	case "sqlite":
		st, err = sqlite.New(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("SQLite unavailable")
		}
	}

	// -------- Media files -------------------
	files, err := mediafiles.New(cfg.MediaRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("Media root unavailable")
	}

	// -------- Fixture data ------------------
	if cfg.IsDevelopment() && cfg.SeedFixtures {
		if err := seed.Run(ctx, st); err != nil {
			log.Fatal().Err(err).Msg("Fixture seeding failed")
		}
	}

	// -------- Router & Server --------------
	router := api.NewRouter(st, files)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
