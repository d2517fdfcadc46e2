package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aqarlink/aqarlink-backend/internal/users"
	"github.com/aqarlink/aqarlink-backend/pkg/config"
	"github.com/aqarlink/aqarlink-backend/pkg/db"
	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/migrate"
	"github.com/aqarlink/aqarlink-backend/pkg/security"
)

// Seeds an initial admin account so operators can reach the admin surface
// on a fresh environment. Safe to re-run: existing emails are left alone.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (falls back to AQARLINK_SEED_ADMIN_PASSWORD)")
	firstName := flag.String("first-name", "Aqarlink", "admin first name")
	lastName := flag.String("last-name", "Admin", "admin last name")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}
	secret := *password
	if secret == "" {
		secret = os.Getenv("AQARLINK_SEED_ADMIN_PASSWORD")
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "missing -password and AQARLINK_SEED_ADMIN_PASSWORD not set")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	repo := users.NewRepository(dbClient.DB())

	existing, err := repo.FindByEmail(ctx, *email)
	if err != nil {
		logg.Error(ctx, "failed to look up admin email", err)
		os.Exit(1)
	}
	if existing != nil {
		logg.Info(logg.WithField(ctx, "email", *email), "admin already exists, nothing to do")
		return
	}

	hash, err := security.HashPassword(secret, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash admin password", err)
		os.Exit(1)
	}

	admin := &models.User{
		Email:        *email,
		PasswordHash: hash,
		FirstName:    *firstName,
		LastName:     *lastName,
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		logg.Error(ctx, "failed to create admin user", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"email":   *email,
		"user_id": admin.ID.String(),
	}), "admin user seeded")
}
