package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/config"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/router"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has
	// access to the mailer and the breaker guarding it.
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	demandaRepo := repository.NewDemandaRepository(db)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		worker.JobResumoEmail: worker.NewResumoEmailWorker(demandaRepo, mailer, smtpCB, cfg.ResumoStoragePath),
	})

	scheduler, err := worker.StartRetryCron(ctx, worker.RetryCronConfig{
		RDB:         rdb,
		CB:          smtpCB,
		Interval:    cfg.DLQRetryInterval,
		MaxAttempts: cfg.DLQMaxAttempts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start DLQ retry cron")
	}

	r := router.New(cfg, db, rdb, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // report and PDF downloads
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Almoxarifado Pro backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	if err := scheduler.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("retry cron shutdown")
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
