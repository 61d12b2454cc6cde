package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/accounts"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/catalog"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/gate"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/storage"
	"portfolio-backend/internal/uploads"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var flagStore gate.FlagStore = gate.NewMemoryFlagStore()
	if redisCache != nil {
		flagStore = gate.NewRedisFlagStore(redisCache.Client())
	}

	adminGate := gate.New(cfg.AdminSecret, flagStore, logger)
	if err := adminGate.Restore(ctx); err != nil {
		logger.Warn("admin session restore failed", slog.String("error", err.Error()))
	}

	go func() {
		for state := range adminGate.Subscribe() {
			logger.Info("admin session state changed", slog.String("state", state.String()))
		}
	}()

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "portfolio-backend",
		}
	}

	val := validation.New()

	projectsRepo := projects.NewRepository(cols.Projects)
	projectsService := projects.NewService(projectsRepo, adminGate, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	projectsHandler := projects.NewHandler(projectsService, val, logger)

	accountsService := accounts.NewService(accounts.NewMongoRepository(cols.AdminUsers))

	catalogHandler := catalog.NewHandler()

	var uploadsHandler *uploads.Handler
	if cfg.StorageEndpoint != "" {
		store, err := storage.New(ctx, storage.Options{
			Endpoint:      cfg.StorageEndpoint,
			Region:        cfg.StorageRegion,
			Bucket:        cfg.StorageBucket,
			AccessKey:     cfg.StorageAccessKey,
			SecretKey:     cfg.StorageSecretKey,
			PublicBaseURL: cfg.StoragePublicBaseURL,
		})
		if err != nil {
			logger.Error("storage client failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		uploadsHandler = uploads.NewHandler(store, logger)
		logger.Info("storage enabled", slog.String("bucket", cfg.StorageBucket))
	} else {
		logger.Info("storage disabled")
	}

	server := &handlers.Server{
		Cfg:      cfg,
		Val:      val,
		Log:      logger,
		Gate:     adminGate,
		JWT:      jwtManager,
		Accounts: accountsService,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	uploadsLimiter := middleware.NewRateLimiter(cfg.RateLimitUploads, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Get("/healthz", server.Health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/projects", projectsHandler.List)
		api.Get("/projects/featured", projectsHandler.Featured)
		api.Get("/projects/search", projectsHandler.Search)
		api.Get("/projects/{id}", projectsHandler.GetByID)
		api.Get("/categories", projectsHandler.Categories)
		api.Get("/technologies", catalogHandler.Technologies)
		api.Get("/profile", catalogHandler.Profile)

		api.Route("/admin", func(admin chi.Router) {
			admin.With(loginLimiter.Middleware).Post("/login", server.AdminLogin)
			admin.With(loginLimiter.Middleware).Post("/session", server.AdminSession)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			// chi requires middlewares before routes, so the protected
			// surface lives in its own sub-router.
			admin.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager, adminGate))
				protected.Post("/register", server.AdminRegister)
				protected.Post("/projects", projectsHandler.AdminCreate)
				protected.Patch("/projects/{id}", projectsHandler.AdminUpdate)
				protected.Delete("/projects/{id}", projectsHandler.AdminDelete)

				if uploadsHandler != nil {
					protected.With(uploadsLimiter.Middleware).Post("/uploads/image", uploadsHandler.Single)
					protected.With(uploadsLimiter.Middleware).Post("/uploads/images", uploadsHandler.Batch)
					protected.Delete("/uploads", uploadsHandler.Delete)
				}
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
