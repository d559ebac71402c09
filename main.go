package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront-service/config"
	"storefront-service/database"
	"storefront-service/events"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync()

	// Key-value tier: cart entry and the chunked order sequence.
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis is required for cart and order persistence", zap.Error(err))
	}
	kv := database.NewRedisKV(redisClient)

	// Indexed catalog tier. A missing catalog store degrades to seed data
	// instead of blocking startup.
	var catalogRepo repository.CatalogRepository
	mongoDB, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDBName)
	if err != nil {
		log.Warn("catalog store unavailable, continuing on seed data", zap.Error(err))
	} else {
		repo := repository.NewMongoCatalogRepository(mongoDB, log)
		bootstrapCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureIndexes(bootstrapCtx); err != nil {
			log.Warn("failed to ensure catalog indexes", zap.Error(err))
		}
		cancel()
		catalogRepo = repo
		defer database.CloseMongo(mongoDB)
	}

	producer := events.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	defer producer.Close()

	notifier := events.NewRedisCatalogNotifier(redisClient, log)

	orderStore := database.NewChunkedListStore[models.Order](kv, cfg.MaxChunkSize, cfg.MaxChunks)
	orderService := services.NewOrderService(orderStore, log)
	cartService := services.NewCartService(kv, orderService, producer, log)
	catalogService := services.NewCatalogService(catalogRepo, notifier, log)

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	orderService.Load(loadCtx)
	cartService.Load(loadCtx)
	if _, err := catalogService.GetAll(loadCtx); err != nil {
		log.Warn("catalog initialization incomplete", zap.Error(err))
	}
	cancel()

	// Refresh the cache whenever another instance mutates the catalog.
	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()
	go notifier.Listen(listenCtx, func(ts int64) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := catalogService.Refresh(refreshCtx); err != nil {
			log.Warn("catalog refresh after remote update failed", zap.Error(err))
		}
	})

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Register(router, cartService, orderService, catalogService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("storefront service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", zap.Error(err))
	}
	log.Info("server shutdown complete")
}
