package app

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

	"pedlop-auth/internal/config"
	"pedlop-auth/internal/cookie"
	"pedlop-auth/internal/database"
	"pedlop-auth/internal/handler"
	"pedlop-auth/internal/middleware"
	"pedlop-auth/internal/repository"
	"pedlop-auth/internal/router"
	"pedlop-auth/internal/service"
	"pedlop-auth/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to MongoDB")
	db, err := database.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureIndexes(context.Background()); err != nil {
		db.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure unique indexes: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Database)
	slog.Info("database ready")

	signer, err := token.NewSigner(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		db.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}

	cookies := cookie.NewTransport(cfg.CookiePrefix, cfg.CookieDomain, cfg.Production())
	authService := service.NewAuthService(signer, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService, cookies)
	authHandler := handler.NewAuthHandler(authService, cookies)
	healthHandler := handler.NewHealthHandler(db)

	appRouter := router.New(cfg, authMiddleware, authHandler, healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close(context.Background())
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
