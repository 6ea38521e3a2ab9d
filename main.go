// main.go
package main

import (
	"context"
	"log"
	"time"

	"appliance-store/cmd"
	"appliance-store/internal/data/repository"
	"appliance-store/internal/usecase"
	"appliance-store/internal/wire"
	"appliance-store/pkg/cache"
	"appliance-store/pkg/database"
	"appliance-store/pkg/events"
	"appliance-store/pkg/mailer"
	"appliance-store/pkg/payment"
	"appliance-store/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Schema first, then the pool
	if err := database.RunMigrations(config.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(context.Background(), config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// OTP, pending logins and guest carts live in the cache store
	clock := cache.SystemClock()
	var store cache.Store
	if config.Redis.Addr != "" {
		client, err := cache.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		store = cache.NewRedisStore(client, logger)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	} else {
		store = cache.NewMemoryStore(clock)
		logger.Warn("REDIS_ADDR not set, using in-process cache (single instance only)")
	}

	var mail mailer.Sender
	if config.Email.Host != "" {
		mail = mailer.NewSMTPSender(config.Email, logger)
	} else {
		mail = mailer.NewLogSender(logger)
		logger.Warn("SMTP_HOST not set, OTP emails are written to the log")
	}

	var publisher events.Publisher
	if len(config.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.Topic, logger)
	} else {
		publisher = events.NewLogPublisher(logger)
	}
	defer publisher.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, store, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, usecase.Deps{
		Mailer:    mail,
		Gateway:   payment.NewRazorpayGateway(config.Payment, logger),
		Publisher: publisher,
		Clock:     clock,
	}, config, logger)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go cmd.SessionJanitor(janitorCtx, repos.Session, time.Hour, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
