package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/chiiloo/saffron-store-api/internal/cms"
	"github.com/chiiloo/saffron-store-api/internal/config"
	"github.com/chiiloo/saffron-store-api/internal/handler"
	"github.com/chiiloo/saffron-store-api/internal/middleware"
	"github.com/chiiloo/saffron-store-api/internal/notify"
	"github.com/chiiloo/saffron-store-api/internal/repository"
	"github.com/chiiloo/saffron-store-api/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ is optional: without it, order notifications are skipped.
	var (
		amqpConn  *amqp.Connection
		publisher notify.Publisher = notify.NopPublisher{}
	)
	if cfg.RabbitMQ.URL != "" {
		amqpConn, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		amqpCh, err := amqpConn.Channel()
		if err != nil {
			log.Error("open RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer amqpCh.Close()

		if err := notify.SetupQueues(amqpCh); err != nil {
			log.Error("setup RabbitMQ", "error", err)
			os.Exit(1)
		}
		publisher = notify.NewAMQPPublisher(amqpCh)
		log.Info("connected to RabbitMQ")
	} else {
		log.Warn("RABBITMQ_URL not set, order notifications disabled")
	}

	// Repositories
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(redisClient, cfg.Store.CartTTL)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Optional external catalog source.
	var catalogSource service.CatalogSource
	if cfg.CMS.URL != "" {
		catalogSource = cms.New(cfg.CMS.URL, cfg.CMS.Key, cfg.CMS.Secret, cfg.CMS.Timeout)
		log.Info("catalog source configured", "url", cfg.CMS.URL)
	}

	// Services
	authSvc := service.NewAuthService(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.JWTSecret, cfg.Admin.JWTExpiration)
	catalogSvc := service.NewCatalogService(productRepo, catalogSource, redisClient, log)
	cartSvc := service.NewCartService(cartRepo, cfg.Store.DiscountCode)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, cartSvc, publisher, log)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	v1 := router.Group("/api/v1")
	{
		// The slug index lives outside /products because a static child
		// cannot share a segment with the :slug route.
		v1.GET("/slugs", productH.ListSlugs)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/:slug", productH.GetBySlug)

		cart := v1.Group("/cart")
		cart.GET("", cartH.Get)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:productId", cartH.UpdateItem)
		cart.DELETE("/items/:productId", cartH.RemoveItem)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders")
		orders.POST("", orderH.Checkout)
		orders.GET("/track", orderH.Track)

		admin := v1.Group("/admin")
		admin.POST("/login", authH.Login)

		gated := admin.Group("", middleware.RequireAdmin(cfg.Admin.JWTSecret))
		gated.GET("/orders", orderH.List)
		gated.PATCH("/orders/:id/status", orderH.UpdateStatus)
		gated.GET("/products", productH.ListAll)
		gated.POST("/products", productH.Create)
		gated.PUT("/products/:id", productH.Update)
		gated.DELETE("/products/:id", productH.Delete)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	cancel()
	log.Info("server stopped")
}
