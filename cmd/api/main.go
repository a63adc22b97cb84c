package main

import (
	"context"
	"net/http"
	"os"

	"github.com/avelezcruz/mealbridge-backend/api/routes"
	"github.com/avelezcruz/mealbridge-backend/internal/auth"
	"github.com/avelezcruz/mealbridge-backend/internal/donations"
	"github.com/avelezcruz/mealbridge-backend/internal/gamification"
	"github.com/avelezcruz/mealbridge-backend/internal/matching"
	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/internal/profiles"
	"github.com/avelezcruz/mealbridge-backend/internal/requests"
	"github.com/avelezcruz/mealbridge-backend/pkg/auth/session"
	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/metrics"
	"github.com/avelezcruz/mealbridge-backend/pkg/migrate"
	"github.com/avelezcruz/mealbridge-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	registry := prometheus.NewRegistry()
	matchingMetrics := metrics.NewMatchingMetrics(registry)

	profileRepo := profiles.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())
	donationRepo := donations.NewRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	matchingService, err := matching.NewService(profileRepo, notificationService, matchingMetrics, cfg.Matching)
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	gamificationService, err := gamification.NewService(profileRepo, cfg.Matching)
	if err != nil {
		logg.Error(context.Background(), "failed to create gamification service", err)
		os.Exit(1)
	}

	donationService, err := donations.NewService(
		donationRepo,
		matchingService,
		notificationService,
		gamificationService,
		profileRepo,
		logg,
		matchingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create donation service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requestRepo, matchingService, logg, matchingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(profileRepo, cfg.Matching)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:              cfg,
			Logger:              logg,
			DBPinger:            dbClient,
			Redis:               redisClient,
			SessionManager:      sessionManager,
			Gatherer:            registry,
			AuthService:         authService,
			RegisterService:     registerService,
			ProfileService:      profileService,
			DonationService:     donationService,
			RequestService:      requestService,
			NotificationService: notificationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
