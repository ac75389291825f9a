package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/controllers"
	"github.com/Mapachitomamalon/CosmoFood/database"
	"github.com/Mapachitomamalon/CosmoFood/kafka"
	aws_pkg "github.com/Mapachitomamalon/CosmoFood/pkg/aws"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/routes"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	db, err := database.ConnectPostgres(database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Redis (non-fatal, degrades to no cache / no idempotency) ---
	var menuCache repository.CatalogCache
	var idempotency repository.IdempotencyRepository
	redisClient, err := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("Redis connection failed, cache and POS idempotency disabled", zap.Error(err))
	} else {
		menuCache = repository.NewRedisCatalogCache(redisClient)
		idempotency = repository.NewRedisIdempotencyRepository(redisClient)
	}

	// --- Kafka (non-fatal, degrades to no events) ---
	var orderPublisher services.OrderEventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrdersTopic, logger)
		orderPublisher = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	// --- SNS (non-fatal, degrades to no complaint notifications) ---
	var complaintNotifier services.ComplaintNotifier
	if cfg.ComplaintSNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Warn("Failed to load AWS config, complaint notifications disabled", zap.Error(err))
		} else {
			snsClient := aws_pkg.NewSNSClient(awsCfg)
			complaintNotifier = aws_pkg.NewComplaintPublisher(snsClient, cfg.ComplaintSNSTopicARN)
		}
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	cartRepo := repository.NewGormCartRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	courierRepo := repository.NewGormCourierRepository(db)
	paymentRepo := repository.NewGormPaymentMethodRepository(db)
	complaintRepo := repository.NewGormComplaintRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authService := services.NewAuthService(userRepo, tokenService, logger)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, menuCache, logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	orderService := services.NewOrderService(
		orderRepo, cartRepo, userRepo, courierRepo, paymentRepo,
		idempotency, orderPublisher, cfg.ShippingCost, cfg.WalkInUsername, logger,
	)
	courierService := services.NewCourierService(courierRepo, userRepo, logger)
	complaintService := services.NewComplaintService(complaintRepo, orderRepo, complaintNotifier, logger)

	routes.Register(r, tokenService, routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Catalog:   controllers.NewCatalogController(catalogService),
		Cart:      controllers.NewCartController(cartService),
		Order:     controllers.NewOrderController(orderService),
		Courier:   controllers.NewCourierController(courierService),
		Complaint: controllers.NewComplaintController(complaintService),
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "cosmofood"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Cosmofood server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		producer.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Cosmofood server stopped gracefully")
}
