// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-academy-intake/internal/application"
	"telegram-academy-intake/internal/config"
	"telegram-academy-intake/internal/domain/ports/repository"
	pg "telegram-academy-intake/internal/infra/db/postgres"
	"telegram-academy-intake/internal/infra/i18n"
	"telegram-academy-intake/internal/infra/logging"
	"telegram-academy-intake/internal/infra/memory"
	"telegram-academy-intake/internal/infra/metrics"
	red "telegram-academy-intake/internal/infra/redis"
	"telegram-academy-intake/internal/infra/sheets"
	tele "telegram-academy-intake/internal/infra/telegram"
	"telegram-academy-intake/internal/infra/web"
	"telegram-academy-intake/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, in-memory sessions)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Session store ----
	var sessions repository.SessionRepository
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		sessions = red.NewSessionRepo(redisClient)
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		if !cfg.Runtime.Dev {
			logger.Warn().Msg("redis.url not set; sessions are in-memory and lost on restart")
		}
		sessions = memory.NewSessionRepo()
	}

	// ---- Registration sink ----
	sink, err := sheets.NewSink(ctx, &cfg.Sheets)
	if err != nil {
		logger.Fatal().Err(err).Msg("sheets")
	}

	// ---- Optional intake archive ----
	var archive repository.ArchiveRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		repo := pg.NewPostgresArchiveRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("archive schema")
		}
		archive = repo
	}

	// ---- Use case + facade ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "ar")
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	intakeUC := usecase.NewIntakeUseCase(sessions, sink, archive, logger)
	facade := application.NewBotFacade(intakeUC, translator, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, cfg.Runtime.Dev, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops server (/health, /metrics, /api/v1/stats) ----
	opsSrv := web.NewServer(cfg.Ops.Port, archive, logger)
	go func() {
		if err := opsSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server")
		}
	}()

	logger.Info().Bool("dev", cfg.Runtime.Dev).Msg("academy intake bot running")

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = opsSrv.Shutdown(shutdownCtx)
}

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)
