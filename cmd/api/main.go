package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartadapters "storefront/internal/cart/adapters"
	cartapp "storefront/internal/cart/application"
	carthttp "storefront/internal/cart/infrastructure"
	catalogadapters "storefront/internal/catalog/adapters"
	catalogapp "storefront/internal/catalog/application"
	cataloghttp "storefront/internal/catalog/infrastructure"
	catalogports "storefront/internal/catalog/ports"
	ordersadapters "storefront/internal/orders/adapters"
	ordersapp "storefront/internal/orders/application"
	ordershttp "storefront/internal/orders/infrastructure"
	ordersports "storefront/internal/orders/ports"
	reviewsadapters "storefront/internal/reviews/adapters"
	reviewsapp "storefront/internal/reviews/application"
	reviewshttp "storefront/internal/reviews/infrastructure"
	usersadapters "storefront/internal/users/adapters"
	usersapp "storefront/internal/users/application"
	usershttp "storefront/internal/users/infrastructure"
	usersports "storefront/internal/users/ports"
	wishlistadapters "storefront/internal/wishlist/adapters"
	wishlistapp "storefront/internal/wishlist/application"
	wishlisthttp "storefront/internal/wishlist/infrastructure"
	"storefront/pkg/config"
	"storefront/pkg/db"
	"storefront/pkg/events"
	"storefront/pkg/logger"
	"storefront/pkg/middleware"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/token"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName))

	// Database
	database, err := db.NewConnection(cfg.DSN(), cfg.DBTimeout)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Repositories. Catalog migrates first: other contexts reference the
	// products table.
	productRepo := catalogadapters.NewPostgresProductRepository(database)
	categoryRepo := catalogadapters.NewPostgresCategoryRepository(database)
	userRepo := usersadapters.NewPostgresUserRepository(database)
	orderRepo := ordersadapters.NewPostgresOrderRepository(database)
	cartRepo := cartadapters.NewPostgresCartRepository(database)
	reviewRepo := reviewsadapters.NewPostgresReviewRepository(database)
	wishlistRepo := wishlistadapters.NewPostgresWishlistRepository(database)

	migrators := []func() error{
		productRepo.Migrate,
		userRepo.Migrate,
		orderRepo.Migrate,
		cartRepo.Migrate,
		reviewRepo.Migrate,
		wishlistRepo.Migrate,
	}
	for _, migrate := range migrators {
		if err := migrate(); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Redis product cache, optional
	var productCache catalogports.ProductCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unavailable, product cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		productCache = catalogadapters.NewRedisProductCache(redisClient)
	}

	// RabbitMQ, optional
	var (
		rabbitConn     *rabbitmq.Connection
		orderPublisher ordersports.EventPublisher
		userPublisher  usersports.EventPublisher
	)
	rabbitConn, err = rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		rabbitConn = nil
	} else {
		publisher, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeStorefront, log)
		if err != nil {
			log.Warn("failed to declare exchange, events disabled", zap.Error(err))
		} else {
			orderPublisher = ordersadapters.NewRabbitMQPublisher(publisher, log)
			userPublisher = usersadapters.NewRabbitMQPublisher(publisher, log)
		}
	}

	// Use cases
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	productUseCase := catalogapp.NewProductUseCase(productRepo, categoryRepo, productCache, cfg.CacheTTL, log)
	categoryUseCase := catalogapp.NewCategoryUseCase(categoryRepo, log)
	userUseCase := usersapp.NewUserUseCase(userRepo, tokens, userPublisher, log)
	orderUseCase := ordersapp.NewOrderUseCase(
		ordersadapters.NewGormTransactionManager(database),
		orderRepo,
		orderPublisher,
		log,
	)
	cartUseCase := cartapp.NewCartUseCase(cartRepo, cartadapters.NewGormProductChecker(database), log)
	reviewUseCase := reviewsapp.NewReviewUseCase(
		reviewRepo,
		reviewsadapters.NewGormProductChecker(database),
		productUseCase,
		log,
	)
	wishlistUseCase := wishlistapp.NewWishlistUseCase(wishlistRepo, wishlistadapters.NewGormProductChecker(database), log)

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	requireAuth := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin()

	api := router.Group("/api/v1")
	cataloghttp.NewHTTPHandler(productUseCase, categoryUseCase).RegisterRoutes(api, requireAuth, requireAdmin)
	usershttp.NewHTTPHandler(userUseCase).RegisterRoutes(api, requireAuth)
	ordershttp.NewHTTPHandler(orderUseCase).RegisterRoutes(api, requireAuth, requireAdmin)
	carthttp.NewHTTPHandler(cartUseCase).RegisterRoutes(api, requireAuth)
	reviewshttp.NewHTTPHandler(reviewUseCase).RegisterRoutes(api, requireAuth)
	wishlisthttp.NewHTTPHandler(wishlistUseCase).RegisterRoutes(api, requireAuth)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	if rabbitConn != nil {
		if err := rabbitConn.Close(); err != nil {
			log.Error("rabbitmq close failed", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("redis close failed", zap.Error(err))
		}
	}

	log.Info("stopped")
}
