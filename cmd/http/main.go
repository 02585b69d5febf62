package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/config"
	adminRepoPkg "github.com/gkicks/gkicks-pos-service/internal/admin/repository"
	"github.com/gkicks/gkicks-pos-service/internal/auth"
	"github.com/gkicks/gkicks-pos-service/internal/router"

	dailyH "github.com/gkicks/gkicks-pos-service/internal/dailysales/handler"
	dailyRepoPkg "github.com/gkicks/gkicks-pos-service/internal/dailysales/repository"
	dailyUCPkg "github.com/gkicks/gkicks-pos-service/internal/dailysales/usecase"

	sessionH "github.com/gkicks/gkicks-pos-service/internal/session/handler"
	sessionRepoPkg "github.com/gkicks/gkicks-pos-service/internal/session/repository"
	sessionUCPkg "github.com/gkicks/gkicks-pos-service/internal/session/usecase"

	stockH "github.com/gkicks/gkicks-pos-service/internal/stock/handler"
	stockListenerPkg "github.com/gkicks/gkicks-pos-service/internal/stock/listener"
	stockRepoPkg "github.com/gkicks/gkicks-pos-service/internal/stock/repository"
	stockUCPkg "github.com/gkicks/gkicks-pos-service/internal/stock/usecase"

	txH "github.com/gkicks/gkicks-pos-service/internal/transaction/handler"
	txRepoPkg "github.com/gkicks/gkicks-pos-service/internal/transaction/repository"
	txUCPkg "github.com/gkicks/gkicks-pos-service/internal/transaction/usecase"

	"github.com/gkicks/gkicks-pos-service/pkg/broker"
	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/gkicks/gkicks-pos-service/pkg/database/mysql"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/search"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := mysql.NewMySQL(&mysql.Config{
		Host:            cfg.MySQL.Host,
		Port:            cfg.MySQL.Port,
		User:            cfg.MySQL.User,
		Password:        cfg.MySQL.Password,
		DBName:          cfg.MySQL.DBName,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.MySQL.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.MySQL.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to MySQL database", zap.String("db_name", cfg.MySQL.DBName))

	txManager := mysql.NewTxManager(db)

	// 4. Initialize Repositories
	adminRepo := adminRepoPkg.NewMySQLRepository(db)
	sessionRepo := sessionRepoPkg.NewMySQLRepository(db)
	stockRepo := stockRepoPkg.NewMySQLRepository(db)
	dailyRepo := dailyRepoPkg.NewMySQLRepository(db)
	txRepo := txRepoPkg.NewMySQLRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 6. Initialize Kafka Producer
	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.POSEventsTopic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.POSEventsTopic))

	// 7. Initialize Elasticsearch
	var indexer txUCPkg.Indexer
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, receipt search will use MySQL", zap.Error(err))
	} else {
		indexer = esClient
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 8. Initialize UseCases
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, txManager, redisClient, appLogger)
	dailyUC := dailyUCPkg.NewDailySalesUseCase(dailyRepo, appLogger)
	sessionUC := sessionUCPkg.NewSessionUseCase(sessionRepo, redisClient, appLogger)
	txUC := txUCPkg.NewTransactionUseCase(txRepo, txManager, stockUC, dailyUC, kafkaProducer, indexer, appLogger)

	// 9. Start storefront order listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.ConsumerEnabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Kafka consumer ready", zap.String("topic", cfg.Kafka.OrdersTopic), zap.String("group_id", cfg.Kafka.GroupID))

		orderListener := stockListenerPkg.NewOrderListener(kafkaConsumer, stockUC, appLogger)
		go orderListener.Start(ctx)
	}

	// 10. Initialize Handlers
	gate := auth.NewGate(
		auth.NewTokenVerifier(cfg.JWT.SecretKey),
		auth.NewSessionStore(redisClient, cfg.Session.KeyPrefix, time.Duration(cfg.Session.TTLSeconds)*time.Second),
		adminRepo,
		cfg.Session.CookieName,
		appLogger,
	)
	handlers := &router.Handlers{
		Session:     sessionH.NewSessionHandler(sessionUC, appLogger),
		Transaction: txH.NewTransactionHandler(txUC, appLogger),
		DailySales:  dailyH.NewDailySalesHandler(dailyUC, appLogger),
		Stock:       stockH.NewStockHandler(stockUC, appLogger),
	}

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           router.New(gate, handlers, router.Options{AllowedOrigins: cfg.Server.AllowedOrigins}, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
