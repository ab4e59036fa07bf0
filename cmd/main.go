package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esportsfed/platform/config"
	"github.com/esportsfed/platform/db"
	"github.com/esportsfed/platform/handlers"
	"github.com/esportsfed/platform/live"
	"github.com/esportsfed/platform/middleware"
	"github.com/esportsfed/platform/repositories"
	"github.com/esportsfed/platform/routes"
	"github.com/esportsfed/platform/services"
	"github.com/esportsfed/platform/storage"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewR2Uploader(storage.R2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("R2 uploader initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	champRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	regRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	productRepo := repositories.NewPostgresProductRepository(dbConn)
	orderRepo := repositories.NewPostgresOrderRepository(dbConn)
	txRunner := repositories.NewSQLTxRunner(dbConn)

	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey))
	userService := services.NewUserService(userRepo)
	teamService := services.NewTeamService(teamRepo, playerRepo, userRepo, uploader)
	championshipService := services.NewChampionshipService(champRepo, regRepo, matchRepo, uploader, logger)
	registrationService := services.NewRegistrationService(txRunner, regRepo, champRepo, teamRepo)
	standingsService := services.NewStandingsService(teamRepo, regRepo)
	matchService := services.NewMatchService(txRunner, matchRepo, teamRepo, champRepo, standingsService, hub, logger)
	newsService := services.NewNewsService(newsRepo)
	storeService := services.NewStoreService(txRunner, productRepo, orderRepo)
	logger.Info("services initialized")

	authenticator := middleware.NewAuthenticator([]byte(cfg.JWTSecretKey))

	router := routes.InitRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService),
		Team:         handlers.NewTeamHandler(teamService),
		Championship: handlers.NewChampionshipHandler(championshipService, standingsService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Match:        handlers.NewMatchHandler(matchService),
		Standings:    handlers.NewStandingsHandler(standingsService),
		News:         handlers.NewNewsHandler(newsService),
		Store:        handlers.NewStoreHandler(storeService),
		WebSocket:    handlers.NewWebSocketHandler(hub, championshipService),
	}, authenticator, cfg.CORSOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
