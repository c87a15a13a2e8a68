package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shakytails/shakytails-backend/internal/users"
	"github.com/shakytails/shakytails-backend/pkg/config"
	"github.com/shakytails/shakytails-backend/pkg/db"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/security"
)

const passwordEnvVar = "SHAKYTAILS_ADMIN_PASSWORD"

const minPasswordLen = 8

// Admin accounts are provisioned explicitly with this tool. The API never
// mints one from environment credentials.
func main() {
	logg := logger.New(logger.Options{ServiceName: "provision-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "", "admin display name")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "usage: provision-admin -email <email> -name <name>")
		fmt.Fprintf(os.Stderr, "the password is read from %s\n", passwordEnvVar)
		os.Exit(2)
	}

	password := os.Getenv(passwordEnvVar)
	if len(password) < minPasswordLen {
		fmt.Fprintf(os.Stderr, "%s must be set and at least %d characters\n", passwordEnvVar, minPasswordLen)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "provision-admin",
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

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to hash password", err)
		os.Exit(1)
	}

	repo := users.NewRepository(dbClient.DB())

	user, err := repo.Create(context.Background(), users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(*name),
		SystemRole:   enums.SystemRoleAdmin,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin user", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})
	logg.Info(ctx, "admin user provisioned")
}
