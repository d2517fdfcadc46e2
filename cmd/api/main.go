package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/api/routes"
	"github.com/aqarlink/aqarlink-backend/internal/agents"
	"github.com/aqarlink/aqarlink-backend/internal/appointments"
	"github.com/aqarlink/aqarlink-backend/internal/notifications"
	"github.com/aqarlink/aqarlink-backend/internal/properties"
	"github.com/aqarlink/aqarlink-backend/internal/reviews"
	"github.com/aqarlink/aqarlink-backend/internal/users"
	"github.com/aqarlink/aqarlink-backend/internal/wallet"
	"github.com/aqarlink/aqarlink-backend/pkg/config"
	"github.com/aqarlink/aqarlink-backend/pkg/db"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/migrate"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	walletService, err := wallet.NewService(dbClient, wallet.NewRepository(dbClient.DB()), outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	agentsService, err := agents.NewService(
		dbClient,
		agents.NewRepository(dbClient.DB()),
		users.NewRepository(dbClient.DB()),
		outboxService,
		decimal.NewFromInt(cfg.Wallet.MaxVisitAmount),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create agents service", err)
		os.Exit(1)
	}

	appointmentsService, err := appointments.NewService(
		dbClient,
		appointments.NewRepository(dbClient.DB()),
		properties.NewRepository(dbClient.DB()),
		agentsService,
		walletService,
		outboxService,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create appointments service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), agents.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			appointmentsService,
			agentsService,
			walletService,
			reviewsService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
