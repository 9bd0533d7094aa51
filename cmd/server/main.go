package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ujjain127/better-wealth/internal/api"
	"github.com/ujjain127/better-wealth/internal/config"
	"github.com/ujjain127/better-wealth/internal/database"
	"github.com/ujjain127/better-wealth/internal/encryption"
	"github.com/ujjain127/better-wealth/internal/logger"
	"github.com/ujjain127/better-wealth/internal/metrics"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/scheduler"
	"github.com/ujjain127/better-wealth/internal/service"
	"github.com/ujjain127/better-wealth/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger config is not known yet.
		boot := logger.New(logger.Config{Level: "info"})
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)
	log.Info().Str("version", version.Version).Msg("Starting better-wealth")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	cipher, err := encryption.NewNoteCipher(cfg.Security.NotesKeys...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load notes encryption key")
	}
	if !cipher.Enabled() {
		log.Warn().Msg("NOTES_ENCRYPTION_KEY not set, transaction notes are stored unencrypted")
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	rebalance := service.RebalanceSettings{
		FeePerTrade: cfg.Advisor.FeePerTrade,
		Instruments: cfg.Advisor.Instruments,
		Interval:    cfg.Advisor.Sweep.Interval(),
	}

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(
		portfolioRepo,
		transactionRepo,
		cipher,
		cfg.Advisor.FeePerTrade,
		log,
	)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		holdingRepo,
		transactionService,
		rebalance,
		log,
	)
	holdingService := service.NewHoldingService(
		db,
		portfolioRepo,
		holdingRepo,
		log,
	)
	sweepService := service.NewRebalanceSweepService(
		db,
		portfolioRepo,
		holdingRepo,
		transactionRepo,
		transactionService,
		rebalance,
		log,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Background jobs stop when ctx is cancelled on shutdown
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sched := scheduler.New(ctx, log)
	if cfg.Advisor.Sweep.Enabled {
		if err := sched.AddJob(cfg.Advisor.Sweep.Schedule, scheduler.NewAutoRebalanceJob(sweepService, m)); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule auto-rebalance")
		}
	}
	sched.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Portfolio:   portfolioService,
		Holding:     holdingService,
		Transaction: transactionService,
	}, cfg, log, m)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stop()
	sched.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited")
}
