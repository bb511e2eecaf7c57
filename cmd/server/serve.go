package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquor-delivery/internal/cart"
	"liquor-delivery/internal/config"
	handlers "liquor-delivery/internal/controllers/http"
	"liquor-delivery/internal/infra"
	"liquor-delivery/internal/infra/cache"
	"liquor-delivery/internal/infra/database"
	"liquor-delivery/internal/infra/rabbitmq"
	"liquor-delivery/internal/logger"
	"liquor-delivery/internal/repository/gormrepo"
	"liquor-delivery/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var autoMigrate bool

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("db: connect: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("db: migrate: %w", err)
		}
		log.Info("schema migrated")
	}

	orderRepo := gormrepo.NewOrderRepository(db, log)
	productRepo := gormrepo.NewProductRepository(db, log)
	settings := services.NewSettingsService(gormrepo.NewSettingsRepository(db, log), log)

	var products infra.ProductLookup = productRepo
	if cfg.ProductServiceURL != "" {
		products = infra.NewProductClient(cfg.ProductServiceURL, 2*time.Second)
		log.Info("using remote catalog", zap.String("url", cfg.ProductServiceURL))
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
		if err != nil {
			return fmt.Errorf("failed to init publisher: %w", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn("RABBITMQ_URL not set, order events are dropped")
	}

	orders := services.NewOrderService(orderRepo, products, settings, publisher, log)

	var cartStore cart.Store = cart.NewMemoryStore()
	cartProducts := products
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DB:           0,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis: ping %s: %w", cfg.RedisAddr, err)
		}

		c := cache.NewRedisCache(rdb)
		orders.SetCache(c, cfg.OrderLookupTTL)
		cartStore = cart.NewRedisStore(rdb, cfg.CartTTL)
		cartProducts = cache.NewProductLookup(products, c, cfg.ProductCacheTTL, log)
	} else {
		log.Warn("REDIS_HOST not set, carts are kept in memory and idempotency keys are ignored")
	}

	carts := services.NewCartService(cartStore, cartProducts, settings, orders, log)
	dashboard := services.NewDashboardService(orderRepo, productRepo, log)

	if cfg.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY not set, admin routes will reject every request")
	}
	handler := handlers.NewHandler(orders, carts, settings, dashboard, sqlDB, cfg.AdminAPIKey, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(log), handlers.CORS(cfg.CORSOrigins))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting liquor delivery API", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
