package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/webgames/accounts-go/internal/config"
	"github.com/webgames/accounts-go/internal/crypto"
	"github.com/webgames/accounts-go/internal/handler"
	"github.com/webgames/accounts-go/internal/middleware"
	"github.com/webgames/accounts-go/internal/repository"
	"github.com/webgames/accounts-go/internal/service"
	"github.com/webgames/accounts-go/internal/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialect, err := repository.ParseDialect(cfg.Database.Driver)
	if err != nil {
		slog.Error("selecting database driver", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		slog.Error("database connection failed", "driver", dialect, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, db, dialect); err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}
	}

	userRepo := repository.NewUserRepository(db, dialect)
	hasher := crypto.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := crypto.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
	accountService := service.NewAccountService(userRepo, hasher, tokens, validation.New())
	accountHandler := handler.NewAccountHandler(accountService)

	genHandler := handler.NewGeneratorHandler(service.NewGeneratorService())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/home", accountHandler.HandleHome)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		r.Post("/api/v1/user/signup", accountHandler.HandleSignup)
		r.Post("/api/v1/user/signin", accountHandler.HandleSignIn)
		r.Post("/api/v1/user/password/generate", genHandler.HandleSuggest)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(accountService))
		r.Put("/api/v1/user/password", accountHandler.HandleUpdatePassword)
		r.Get("/api/v1/user/profile/{username}", accountHandler.HandleGetProfile)
		r.Delete("/api/v1/user/{email}", accountHandler.HandleDeleteUser)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
