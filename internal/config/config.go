package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/martkit/user-service/internal/storage"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	TokenExpiry time.Duration
	UploadsDir  string
	Avatars     storage.S3Config // S3 backend enabled when Bucket is set
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8081"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/signup?parseTime=true&multiStatements=true"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenExpiry: 24 * time.Hour,
		UploadsDir:  getEnv("UPLOADS_DIR", "uploads"),
		Avatars: storage.S3Config{
			Bucket:        os.Getenv("AVATAR_S3_BUCKET"),
			Region:        getEnv("AVATAR_S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("AVATAR_S3_ENDPOINT"),
			AccessKey:     os.Getenv("AVATAR_S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("AVATAR_S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("AVATAR_S3_PUBLIC_URL"),
		},
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
