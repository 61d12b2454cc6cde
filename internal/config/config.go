package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	MongoURI       string
	MongoDB        string
	ServerAddr     string
	FrontendOrigin string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTLSeconds int

	// Shared secret validated by the admin session gate.
	AdminSecret string
	// Static API key accepted by the admin middleware (CI, scripts).
	AdminAPIKey string

	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool

	RateLimitLogin     int
	RateLimitUploads   int
	RateLimitWindowSec int

	StorageEndpoint  string
	StorageRegion    string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	// Base URL under which uploaded objects are publicly reachable.
	// Defaults to <endpoint>/<bucket> when empty.
	StoragePublicBaseURL string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017/portfolio"),
		MongoDB:        getEnv("MONGO_DB", "portfolio"),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		AdminSecret: getEnv("ADMIN_SECRET", ""),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:  getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes: getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",

		RateLimitLogin:     getEnvInt("RATE_LIMIT_LOGIN", 10),
		RateLimitUploads:   getEnvInt("RATE_LIMIT_UPLOADS", 30),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		StorageEndpoint:      getEnv("STORAGE_ENDPOINT", ""),
		StorageRegion:        getEnv("STORAGE_REGION", "us-east-1"),
		StorageBucket:        getEnv("STORAGE_BUCKET", "project-images"),
		StorageAccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	return cfg, nil
}
