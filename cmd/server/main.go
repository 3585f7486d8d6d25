package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/config"
	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	subEvents "github.com/Kilat-Pet-Delivery/service-subscription/internal/events"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/metrics"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "service-subscription"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.Bool("kafka", cfg.KafkaConfig.Enabled),
	)

	// Initialize subscription store
	var (
		db      *gorm.DB
		subRepo subDomain.SubscriptionRepository
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		subRepo = repository.NewMemorySubscriptionRepository()
		zapLogger.Warn("using in-memory subscription store; records are lost on restart")
	default:
		db, err = database.Connect(cfg.DBConfig, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to database", zap.Error(err))
		}

		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.SubscriptionModel{}); err != nil {
				zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			zapLogger.Info("database migration completed (dev auto-migrate)")
		} else if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
		subRepo = repository.NewGormSubscriptionRepository(db)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	subMetrics, err := metrics.New(registry)
	if err != nil {
		zapLogger.Fatal("failed to register metrics", zap.Error(err))
	}

	// Initialize event publisher
	var publisher application.EventPublisher = subEvents.NewLogEventPublisher(zapLogger)
	var kafkaProducer *kafka.Producer
	if cfg.KafkaConfig.Enabled {
		kafkaProducer = kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
		defer kafkaProducer.Close()
		publisher = subEvents.NewKafkaEventPublisher(kafkaProducer, cfg.KafkaConfig.EventsTopic)
	}

	// Initialize application service
	subService := application.NewSubscriptionService(subRepo, application.SystemClock{}, publisher, subMetrics, zapLogger)

	// Initialize Kafka consumer for billing events
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if cfg.KafkaConfig.Enabled {
		billingConsumer := subEvents.NewBillingEventConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.GroupPrefix+serviceName,
			cfg.KafkaConfig.BillingTopic,
			subService,
			zapLogger,
		)
		defer billingConsumer.Close()

		go func() {
			zapLogger.Info("starting billing event consumer")
			if err := billingConsumer.Start(consumerCtx); err != nil {
				if consumerCtx.Err() == nil {
					zapLogger.Error("billing event consumer failed", zap.Error(err))
				}
			}
		}()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// Register health check routes
	health.NewHandler(db, serviceName).RegisterRoutes(router)

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Register subscription routes
	apiV1 := router.Group("/api/v1")
	handler.NewSubscriptionHandler(subService).RegisterRoutes(apiV1)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")

	// Stop consuming before the server drains so no new transitions start.
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}
