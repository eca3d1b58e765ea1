package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/gofiber/fiber/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stocklog/wms-inventory-service/config"
	catalogRepoPkg "github.com/stocklog/wms-inventory-service/internal/catalog/repository"
	ledgerH "github.com/stocklog/wms-inventory-service/internal/ledger/handler"
	ledgerListenerPkg "github.com/stocklog/wms-inventory-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/stocklog/wms-inventory-service/internal/ledger/repository"
	ledgerUCPkg "github.com/stocklog/wms-inventory-service/internal/ledger/usecase"
	"github.com/stocklog/wms-inventory-service/internal/uom"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := sqlx.Connect("pgx", cfg.Postgres.DSN())
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis + lock manager
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	locks := redsync.New(redsyncredis.NewPool(redisClient))
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaReader.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Repositories + UseCase
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	resolver := uom.NewResolver(catalogRepo)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, catalogRepo, resolver, locks, appLogger)

	// 6.5 Initialize Listener
	movementListener := ledgerListenerPkg.NewMovementListener(kafkaReader, ledgerUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go movementListener.Start(ctx)

	// 7. Start HTTP Server
	app := fiber.New(fiber.Config{
		AppName:      "wms-inventory-service",
		ErrorHandler: fiber.DefaultErrorHandler,
	})
	ledgerH.NewLedgerHandler(ledgerUC, appLogger).Register(app)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))
	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "json"
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Encoding = cfg.Logger.Encoding
	}
	if lvl, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	zapCfg.DisableCaller = cfg.Logger.DisableCaller
	zapCfg.DisableStacktrace = cfg.Logger.DisableStacktrace

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
