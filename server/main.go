package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"roomly/api/routes"
	"roomly/internal/availability"
	"roomly/internal/notifications"
	"roomly/internal/promotions"
	"roomly/internal/shared/config"
	"roomly/internal/shared/database"
	"roomly/pkg/cache"
	"roomly/pkg/logger"
	"roomly/pkg/ratelimit"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load environment variables
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		// Check if we're in production/container mode
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release)
	gin.SetMode(cfg.GinMode)

	// Initialize DB
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect:", slog.Any("error", err))
	}
	defer db.Close()

	// Preload Redis Lua scripts for atomic room hold operations
	if db.Redis != nil {
		atomicRedis := availability.NewAtomicRedisOperations(db.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := atomicRedis.PreloadScripts(ctx); err != nil {
			appLogger.Error("Failed to preload Redis Lua scripts", slog.Any("error", err))
			// Continue without failing - scripts will be loaded on first use
		} else {
			appLogger.Info("✅ Redis Lua scripts preloaded for atomic room hold operations")
		}
		cancel()
	}

	// Initialize Rate Limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:           cfg.RateLimit.Enabled,
			WindowDuration:    cfg.RateLimit.WindowDuration,
			DefaultRequests:   cfg.RateLimit.DefaultRequests,
			PublicRequests:    cfg.RateLimit.PublicRequests,
			BookingRequests:   cfg.RateLimit.BookingRequests,
			AdminRequests:     cfg.RateLimit.AdminRequests,
			AnalyticsRequests: cfg.RateLimit.AnalyticsRequests,
			HealthRequests:    cfg.RateLimit.HealthRequests,
			WhitelistedIPs:    cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Notification pipeline: Kafka producer feeds the topic, the
	// consumer drains it into email delivery
	var publisher *notifications.Publisher
	var consumer notifications.Consumer
	notificationCtx, notificationCancel := context.WithCancel(context.Background())
	defer notificationCancel()

	if cfg.Kafka.Enabled {
		producerConfig := notifications.DefaultKafkaProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.Topic = cfg.Kafka.NotificationsTopic

		producer, err := notifications.NewKafkaProducer(producerConfig)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer", slog.Any("error", err))
			appLogger.Info("Continuing without notifications - events will not be published")
		} else {
			publisher = notifications.NewPublisher(producer)
			defer producer.Close()

			emailService, err := notifications.NewSMTPEmailService(notifications.NewSMTPConfig(cfg))
			if err != nil {
				appLogger.Info("SMTP not configured, using mock email delivery", slog.Any("reason", err))
				emailService = notifications.NewMockEmailService()
			}

			consumerConfig := notifications.DefaultConsumerConfig()
			consumerConfig.Brokers = cfg.Kafka.Brokers
			consumerConfig.GroupID = cfg.Kafka.ConsumerGroup
			consumerConfig.Topics = []string{cfg.Kafka.NotificationsTopic}

			consumer, err = notifications.NewKafkaConsumer(consumerConfig, emailService)
			if err != nil {
				appLogger.Error("Failed to initialize Kafka consumer", slog.Any("error", err))
			} else {
				go func() {
					if err := consumer.Start(notificationCtx, 3); err != nil {
						appLogger.Error("Failed to start notification consumer", slog.Any("error", err))
					}
				}()
				appLogger.Info("Notification pipeline started",
					slog.String("topic", cfg.Kafka.NotificationsTopic),
					slog.String("group", cfg.Kafka.ConsumerGroup),
				)
				defer func() {
					appLogger.Info("Stopping notification consumer...")
					if err := consumer.Stop(); err != nil {
						appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
					}
				}()
			}
		}
	} else {
		appLogger.Info("Kafka disabled, notifications will not be published")
	}

	// Hourly sweep flips expired promotions inactive so catalog listings
	// stay honest between resolver checks
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go runPromotionSweep(sweepCtx, db, appLogger)

	// Setup router with rate limiter
	router := setupRouter(cfg, db, rateLimiter, publisher)

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_status", fmt.Sprintf("http://localhost:%s%s/status", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", (db.Redis != nil)),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", publisher != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, publisher *notifications.Publisher) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	// CORS configuration
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // allow every origin dynamically
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	// Initialize and setup routes
	appRouter := routes.NewRouter(cfg, db, publisher)
	appRouter.SetupRoutes(engine)

	return engine
}

func runPromotionSweep(ctx context.Context, db *database.DB, l *logger.Logger) {
	sweeper := promotions.NewService(
		promotions.NewRepository(db.GetPostgreSQL()),
		cache.NewService(db.GetRedisClient()),
		l,
	)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := sweeper.SweepExpired(sweepCtx); err != nil {
				l.Error("Promotion sweep failed", slog.Any("error", err))
			}
			cancel()
		}
	}
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
