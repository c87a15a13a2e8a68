package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/shakytails/shakytails-backend/api/routes"
	"github.com/shakytails/shakytails-backend/internal/admin"
	"github.com/shakytails/shakytails-backend/internal/auth"
	"github.com/shakytails/shakytails-backend/internal/foundreports"
	"github.com/shakytails/shakytails-backend/internal/inventory"
	"github.com/shakytails/shakytails-backend/internal/pets"
	"github.com/shakytails/shakytails-backend/internal/reminders"
	"github.com/shakytails/shakytails-backend/internal/users"
	"github.com/shakytails/shakytails-backend/pkg/auth/session"
	"github.com/shakytails/shakytails-backend/pkg/config"
	"github.com/shakytails/shakytails-backend/pkg/db"
	"github.com/shakytails/shakytails-backend/pkg/env"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/mailer"
	"github.com/shakytails/shakytails-backend/pkg/migrate"
	"github.com/shakytails/shakytails-backend/pkg/qr"
	"github.com/shakytails/shakytails-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	qrGenerator, err := qr.NewGenerator(cfg.QR, cfg.App.BaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create qr generator", err)
		os.Exit(1)
	}

	mailSender := mailer.NewSMTPSender(cfg.Mail)

	userRepo := users.NewRepository(dbClient.DB())
	petRepo := pets.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	reminderRepo := reminders.NewRepository(dbClient.DB())
	reportRepo := foundreports.NewRepository(dbClient.DB())

	petStore, err := pets.NewStore(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create pet store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Mailer:         mailSender,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	petService, err := pets.NewService(pets.ServiceParams{
		PetRepo:      petRepo,
		OwnerRepo:    userRepo,
		ReminderRepo: reminderRepo,
		Store:        petStore,
		Renderer:     qrGenerator,
		Mailer:       mailSender,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pets service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		CodeRepo: inventoryRepo,
		Renderer: qrGenerator,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	reminderService, err := reminders.NewService(reminders.ServiceParams{
		ReminderRepo: reminderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminders service", err)
		os.Exit(1)
	}

	foundReportService, err := foundreports.NewService(foundreports.ServiceParams{
		ReportRepo: reportRepo,
		PetRepo:    petRepo,
		OwnerRepo:  userRepo,
		Mailer:     mailSender,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create found reports service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		UserRepo: userRepo,
		PetRepo:  petRepo,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
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
			sessionManager,
			authService,
			petService,
			inventoryService,
			reminderService,
			foundReportService,
			adminService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
