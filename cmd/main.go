package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitchenops/internal/api"
	"kitchenops/internal/cache"
	"kitchenops/internal/config"
	"kitchenops/internal/database"
	"kitchenops/internal/logger"
	"kitchenops/internal/monitoring"
	"kitchenops/internal/notify"
	"kitchenops/internal/shortage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	slogger := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})

	// Initialize database
	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.Database.Seed {
		database.Seed(db)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := monitoring.New(registry)

	// Completion notifications
	hub := notify.NewHub()

	// Optional latest-check cache
	var checkCache *cache.CheckCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Redis unavailable, running without check cache: %v", err)
		} else {
			checkCache = cache.NewCheckCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		}
	}

	// Wire the checker
	opts := []shortage.CheckerOption{
		shortage.WithLocation(cfg.Inventory.Location),
		shortage.WithRecorder(metrics),
		shortage.WithNotifier(hub),
	}
	if checkCache != nil {
		// Keeps the cached "latest" current after automatic runs too.
		opts = append(opts, shortage.WithNotifier(checkCache))
	}

	scheduleRepo := database.NewScheduleRepo(db)
	checker := shortage.NewChecker(
		scheduleRepo,
		database.NewRecipeRepo(db),
		database.NewInventoryRepo(db),
		database.NewMappingRepo(db),
		database.NewCheckStore(db),
		slogger,
		opts...,
	)

	// Automatic checks
	if cfg.Inventory.AutoCheck {
		interval := time.Duration(cfg.Inventory.CheckIntervalMinutes) * time.Minute
		runner := shortage.NewRunner(checker, scheduleRepo, interval, slogger)
		go runner.Run(ctx)
	}

	// Initialize API server
	checksAPI := api.NewChecksAPI(checker, checkCache, hub)

	// Start metrics server
	go startMetricsServer(cfg.Server.MetricsPort, registry)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: checksAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel() // Cancel main context
	}()

	// Start server
	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, registry *prometheus.Registry) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
