package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stockrit/stockrit/internal/config"
	"github.com/stockrit/stockrit/internal/events"
	"github.com/stockrit/stockrit/internal/handler"
	"github.com/stockrit/stockrit/internal/metrics"
	"github.com/stockrit/stockrit/internal/middleware"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/provider"
	"github.com/stockrit/stockrit/internal/repository"
	"github.com/stockrit/stockrit/internal/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real deployments set environment variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.EnsureSchema(db); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Register the "ticker" binding validation used by favorite requests
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("ticker", model.Ticker)
	}

	// Initialize Kafka producer (if enabled)
	var producer *events.Producer
	if cfg.Kafka.Enabled && cfg.Kafka.Brokers != "" {
		producer = events.NewProducer(strings.Split(cfg.Kafka.Brokers, ","), "stockrit-server", logger)
		logger.Info("Initialized Kafka producer", zap.String("brokers", cfg.Kafka.Brokers))
	}

	// Create the market data provider
	yahoo := provider.NewYahoo(cfg.Provider.BaseURL, cfg.Provider.Timeout, logger)

	// Create repositories
	userRepo := repository.NewUserRepository(db, logger)
	favoriteRepo := repository.NewFavoriteRepository(db, logger)

	// Create services
	serverMetrics := metrics.NewMetrics()
	authService := service.NewAuthService(userRepo, producer, cfg, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, producer, serverMetrics, cfg, logger)
	marketService := service.NewMarketService(yahoo, serverMetrics, cfg, logger)

	// Create HTTP server
	router := setupRouter(
		authService,
		marketService,
		favoriteService,
		serverMetrics,
		cfg,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close Kafka producer if initialized
	if producer != nil {
		producer.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func connectToDB(dbConfig config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	// The database container often comes up after the service does, so
	// retry the initial connection instead of crash-looping
	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	authService *service.AuthService,
	marketService *service.MarketService,
	favoriteService *service.FavoriteService,
	serverMetrics *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(serverMetrics))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		// ==================== AUTH ROUTES ====================
		auth := v1.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService, logger)

			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ==================== STOCK ROUTES ====================
		stocks := v1.Group("/stocks")
		{
			// Every stock route fans out to the market data provider,
			// so the group is rate limited per client IP
			stocks.Use(middleware.RateLimit(cfg.RateLimit))

			stockHandler := handler.NewStockHandler(marketService, logger)

			stocks.GET("/popular", stockHandler.Popular)
			stocks.GET("/:symbol/analysis", stockHandler.Analyze)
			stocks.GET("/:symbol/summary", stockHandler.Summary)
		}

		// ==================== FAVORITES ROUTES ====================
		favorites := v1.Group("/favorites")
		{
			favorites.Use(middleware.Auth(authService, logger))

			favoriteHandler := handler.NewFavoriteHandler(favoriteService, logger)

			favorites.GET("", favoriteHandler.List)
			favorites.POST("", favoriteHandler.Add)
			favorites.DELETE("/:symbol", favoriteHandler.Remove)
		}
	}

	return router
}
