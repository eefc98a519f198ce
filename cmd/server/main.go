package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hsaleh/murajaa/internal/api"
	"github.com/hsaleh/murajaa/internal/config"
	"github.com/hsaleh/murajaa/internal/db"
	"github.com/hsaleh/murajaa/internal/generator"
	"github.com/hsaleh/murajaa/internal/ledger"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/repository/sqlite"
	"github.com/hsaleh/murajaa/internal/services"
	"github.com/hsaleh/murajaa/internal/session"
	"github.com/hsaleh/murajaa/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Murajaa Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("generator_url=%s", cfg.GeneratorURL)
	log.Debug("generator_timeout=%s", cfg.GeneratorTimeout)
	log.Debug("deck_worker_count=%d", cfg.DeckWorkerCount)
	log.Debug("deck_queue_size=%d", cfg.DeckQueueSize)
	log.Debug("session_size=%d", cfg.SessionSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	accountRepo := sqlite.NewAccountRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	txnRepo := sqlite.NewTransactionRepository(database.DB)
	scenarioRepo := sqlite.NewScenarioRepository(database.DB)
	rewardRepo := sqlite.NewRewardRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Content generator: external service when configured, local fallback
	// otherwise.
	var gen generator.Generator
	if cfg.GeneratorURL != "" {
		gen = generator.NewClient(cfg.GeneratorURL, cfg.GeneratorTimeout)
		log.Info("using generation service at %s", cfg.GeneratorURL)
	} else {
		gen = generator.NewFallback()
		log.Info("no generator configured, using local fallback")
	}

	// Worker pool for background deck generation
	deckPool := worker.NewPool(cfg.DeckWorkerCount, cfg.DeckQueueSize)

	// Core
	coinLedger := ledger.New(accountRepo, txnRepo, rewardRepo)
	coordinator := session.NewCoordinator(cardRepo, accountRepo, coinLedger)

	// Services
	accountService := services.NewAccountService(accountRepo, txnRepo)
	deckService := services.NewDeckService(deckRepo, cardRepo, gen, deckPool)
	scenarioService := services.NewScenarioService(scenarioRepo, accountRepo, coinLedger, gen)
	rewardService := services.NewRewardService(rewardRepo, coinLedger)
	statsService := services.NewStatsService(statsRepo, accountRepo)

	srv := &api.Server{
		DB:          database,
		Accounts:    accountService,
		Decks:       deckService,
		Scenarios:   scenarioService,
		Rewards:     rewardService,
		Stats:       statsService,
		Coordinator: coordinator,
		SessionSize: cfg.SessionSize,
	}

	ctx, cancel := context.WithCancel(context.Background())
	deckPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping deck pool")
	deckPool.Stop()

	log.Info("===========================================")
	log.Info("Murajaa Server Stopped")
	log.Info("===========================================")
}
