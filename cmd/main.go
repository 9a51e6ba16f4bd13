package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/events"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/handler"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/dynamo"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/mongostore"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/config"
)

const serviceName = "storefront-service"

type publisher interface {
	service.EventPublisher
	HealthCheck(ctx context.Context) error
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("kafka_brokers", cfg.KafkaBrokers))

	ctx := context.Background()

	repos, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}()

	var producer publisher = events.NopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaProducer, err := events.NewKafkaProducer(brokers, cfg.KafkaOrderTopic, cfg.KafkaCompensationTopic, logger)
		if err != nil {
			logger.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		producer = kafkaProducer
	} else {
		logger.Warn("KAFKA_BROKERS is empty, order events are not published")
	}
	defer producer.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(repos.Users, tokens, logger)
	cartService := service.NewCartService(repos.Carts, repos.Products, logger)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("Failed to bootstrap admin user", zap.Error(err))
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		Products:    service.NewProductService(repos.Products, logger),
		Carts:       cartService,
		Checkouts:   service.NewCheckoutService(repos.Checkouts, repos.Orders, repos.Products, cartService, producer, logger),
		Orders:      service.NewOrderService(repos.Orders, logger),
		Users:       userService,
		Sessions:    auth.NewSessions(tokens, repos.Users),
		Logger:      logger,
		ServiceName: serviceName,
		Health: map[string]handler.HealthCheck{
			"store": repos.Ping,
			"kafka": producer.HealthCheck,
		},
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build(zap.Fields(zap.String("service", serviceName)))
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreMongoDB:
		client, err := mongostore.Connect(ctx, cfg)
		if err != nil {
			return repository.Repositories{}, err
		}
		return mongostore.New(ctx, client, cfg.MongoDatabase)
	case config.StoreMemory:
		return memory.New(), nil
	default:
		client, err := dynamo.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return repository.Repositories{}, err
		}
		return dynamo.New(client, dynamo.TablesFromConfig(cfg)), nil
	}
}
