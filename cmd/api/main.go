package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/martkit/user-service/internal/config"
	"github.com/martkit/user-service/internal/handler"
	"github.com/martkit/user-service/internal/middleware"
	"github.com/martkit/user-service/internal/repository"
	"github.com/martkit/user-service/internal/service"
	"github.com/martkit/user-service/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}

	// Startup-only retry: once serving, store errors surface to callers.
	if err := repository.WaitForDB(context.Background(), db, 2*time.Minute); err != nil {
		slog.Error("database not reachable", "error", err)
		os.Exit(1)
	}

	if err := repository.Migrate(db); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var avatars storage.AvatarStorage
	if cfg.Avatars.Bucket != "" {
		s3Store, err := storage.NewS3Storage(context.Background(), cfg.Avatars)
		if err != nil {
			slog.Error("failed to configure S3 avatar storage", "error", err)
			os.Exit(1)
		}
		avatars = s3Store
		slog.Info("avatar storage: s3", "bucket", cfg.Avatars.Bucket)
	} else {
		diskStore, err := storage.NewDiskStorage(cfg.UploadsDir)
		if err != nil {
			slog.Error("failed to create uploads directory", "error", err)
			os.Exit(1)
		}
		avatars = diskStore
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(diskStore.Root()))))
		slog.Info("avatar storage: disk", "dir", diskStore.Root())
	}

	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	authService := service.NewAuthService(accountRepo, profileRepo, cfg.JWTSecret, cfg.TokenExpiry)
	profileService := service.NewProfileService(profileRepo, avatars)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenExpiry)
	profileHandler := handler.NewProfileHandler(profileService, authService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	r.Post("/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.CookieAuth(cfg.JWTSecret))
		r.Get("/", authHandler.HandleWhoAmI)
		r.Get("/profile", profileHandler.HandleGetProfile)
		r.Put("/profile", profileHandler.HandleUpdateProfile)
		r.Put("/profile/password", profileHandler.HandleChangePassword)
		r.Put("/profile/preferences", profileHandler.HandleUpdatePreferences)
		r.Post("/profile/avatar", profileHandler.HandleUploadAvatar)
		r.Post("/profile/avatar/remove", profileHandler.HandleRemoveAvatar)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
