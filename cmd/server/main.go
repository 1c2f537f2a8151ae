package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pericialab/backend/internal/config"
	"github.com/pericialab/backend/internal/db"
	"github.com/pericialab/backend/internal/extract"
	"github.com/pericialab/backend/internal/fn"
	httpapi "github.com/pericialab/backend/internal/http"
	"github.com/pericialab/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "pericia-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var bucket *storage.Bucket
	if cfg.StorageBucket != "" {
		bucket, err = storage.NewBucket(ctx, cfg.StorageBucket, cfg.SignedURLTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init storage bucket")
		}
		defer bucket.Close()
	} else {
		logger.Warn().Msg("STORAGE_BUCKET not set, document storage disabled")
	}

	functions := &fn.Client{BaseURL: cfg.FunctionsURL}
	if !functions.Configured() {
		logger.Info().Msg("FUNCTIONS_URL not set, using local implementations only")
	}

	remote := &extract.Remote{
		ProofreadURL:  cfg.ProofreadURL,
		PetitionURL:   cfg.PetitionURL,
		TranscribeURL: cfg.TranscribeURL,
		OCRURL:        cfg.OCRURL,
	}

	router := httpapi.Router(cfg, store, bucket, functions, remote, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
