package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"bankdemo/internal/app/accounts"
	"bankdemo/internal/app/transactions"
	"bankdemo/internal/config"
	grpc_handler "bankdemo/internal/handler/grpc"
	http_handler "bankdemo/internal/handler/http"
	kafka_handler "bankdemo/internal/handler/kafka"
	"bankdemo/internal/infrastructure/database"
	kafka_infra "bankdemo/internal/infrastructure/kafka"
	"bankdemo/internal/logger"
	"bankdemo/internal/outbox"
	"bankdemo/internal/repository/accounts_repo"
	"bankdemo/internal/repository/inbox_repo"
	"bankdemo/internal/repository/outbox_repo"
	"bankdemo/internal/repository/transactions_repo"
	"bankdemo/internal/security"
)

const healthCheckInterval = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Bank service starting...")

	ctxMain, cancelMain := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancelMain()

	db, err := database.ConnectWithRetry(ctxMain, database.DBConfig{
		DSN:             cfg.GetDBConnectionString(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}, cfg.DB.ConnectRetries, cfg.DB.RetryDelay, logger.Component(appLogger, "Database"))
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("Database connection closed.")
		}
	}()

	appLogger.Info("Running database migrations...", zap.String("source", cfg.DB.MigrationsPath))
	if err := database.RunMigrations(cfg.DB.MigrationsPath, cfg.GetDBMigrationConnectionString(), logger.Component(appLogger, "Migrations")); err != nil {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	accountRepository := accounts_repo.NewAccountRepository()
	logRepository := transactions_repo.NewTransactionLogRepository()
	inboxRepository := inbox_repo.NewInboxRepository()
	outboxRepository := outbox_repo.NewOutboxRepository()
	transactor := database.NewTransactor(db, logger.Component(appLogger, "Transactor"))

	eventsTopic := ""
	if cfg.Kafka.Enabled {
		eventsTopic = cfg.Kafka.AccountEventsTopic
	}

	accountService := accounts.NewAccountService(
		db,
		transactor,
		accountRepository,
		logRepository,
		inboxRepository,
		outboxRepository,
		security.NewBcryptPinEncoder(cfg.PinHashCost),
		eventsTopic,
		logger.Component(appLogger, "AccountService"),
	)
	logService := transactions.NewTransactionLogService(
		db,
		accountRepository,
		logRepository,
		logger.Component(appLogger, "TransactionLogService"),
	)

	router := http_handler.NewRouter(http_handler.RouterConfig{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}, accountService, logService, db, logger.Component(appLogger, "HTTPHandler"))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	healthServer := grpc_handler.NewHealthServer(logger.Component(appLogger, "GRPCHealth"))

	var wg sync.WaitGroup

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := healthServer.Serve(cfg.GRPCHealthPort); err != nil {
			appLogger.Error("gRPC health server failed", zap.Error(err))
		}
	}()
	healthServer.SetServing(true)

	wg.Add(1)
	go func() {
		defer wg.Done()
		healthServer.Watch(ctxMain, db, healthCheckInterval)
	}()

	var consumer *kafka_infra.Consumer
	var producer *kafka_infra.KafkaProducer
	if cfg.Kafka.Enabled {
		brokers := cfg.GetKafkaBrokers()

		topicsCtx, cancelTopics := context.WithTimeout(ctxMain, 10*time.Second)
		err := kafka_infra.EnsureTopics(topicsCtx, brokers, []string{
			cfg.Kafka.AccountEventsTopic,
			cfg.Kafka.DepositRequestsTopic,
		}, logger.Component(appLogger, "KafkaAdmin"))
		cancelTopics()
		if err != nil {
			appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
		}

		producer = kafka_infra.NewProducer(brokers, logger.Component(appLogger, "KafkaProducer"))
		processor := outbox.NewProcessor(
			transactor,
			outboxRepository,
			producer,
			cfg.Outbox.BatchSize,
			cfg.Outbox.PollInterval,
			cfg.Outbox.PollTimeout,
			logger.Component(appLogger, "OutboxProcessor"),
		)

		consumer = kafka_infra.NewConsumer(kafka_infra.ConsumerConfig{
			Brokers: brokers,
			Topic:   cfg.Kafka.DepositRequestsTopic,
			GroupID: cfg.Kafka.ConsumerGroup,
		}, kafka_handler.DepositRequestedMessageHandler(
			accountService,
			logger.Component(appLogger, "DepositRequestedHandler"),
		), logger.Component(appLogger, "DepositRequestsConsumer"))

		wg.Add(2)
		go func() {
			defer wg.Done()
			appLogger.Info("Starting Outbox Processor...")
			processor.Start(ctxMain)
			appLogger.Info("Outbox Processor stopped.")
		}()
		go func() {
			defer wg.Done()
			appLogger.Info("Starting deposit requests consumer...")
			err := consumer.Consume(ctxMain)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrGroupClosed) {
				appLogger.Error("Deposit requests consumer failed", zap.Error(err))
			}
			appLogger.Info("Deposit requests consumer stopped.")
		}()
	} else {
		appLogger.Info("Kafka integration disabled")
	}

	<-ctxMain.Done()
	appLogger.Info("Shutting down application...")

	healthServer.SetServing(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			appLogger.Error("Error closing deposit requests consumer", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		appLogger.Warn("Background workers did not stop before the shutdown timeout")
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		}
	}
	healthServer.Shutdown()

	appLogger.Info("Application gracefully shut down.")
}
