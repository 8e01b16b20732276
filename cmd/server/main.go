package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/api"
	"github.com/chatapp/realtime-chat/internal/api/handler"
	"github.com/chatapp/realtime-chat/internal/api/middleware"
	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/core/service"
	"github.com/chatapp/realtime-chat/internal/infrastructure/db/mongo"
	"github.com/chatapp/realtime-chat/internal/infrastructure/db/redis"
	"github.com/chatapp/realtime-chat/internal/infrastructure/ratelimit"
	"github.com/chatapp/realtime-chat/internal/infrastructure/security"
	"github.com/chatapp/realtime-chat/internal/infrastructure/storage"
	"github.com/chatapp/realtime-chat/internal/pkg/config"
	"github.com/chatapp/realtime-chat/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "chat-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mdb, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mdb.Close(dctx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Repositories ---
	if err := mdb.EnsureIndexes(ctx); err != nil {
		return err
	}
	accounts, messages := mdb.Accounts, mdb.Messages

	images, err := storage.New(ctx, storage.Config{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
		Timeout:   cfg.Storage.UploadTimeout,
	})
	if err != nil {
		return err
	}

	// --- Services ---
	access := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := service.NewAuthService(service.AuthDependencies{
		Accounts: accounts,
		Hasher:   security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Access:   access,
		Refresh:  security.NewJWTIssuer(cfg.Auth.JWTRefreshSecret, cfg.Auth.RefreshTokenTTL),
		Sessions: redis.NewRefreshTokenStore(rdb),
		Images:   images,
		Logger:   logger.Component("auth"),
	})
	messageService := service.NewMessageService(accounts, messages, images, logger.Component("messages"))

	// --- Rate limiting ---
	var store ports.RateLimitStore
	switch cfg.RateLimit.Store {
	case "redis":
		store = redis.NewRateLimitStore(rdb)
	default:
		store = ratelimit.NewMemoryStore()
	}
	go ratelimit.NewSweeper(store, cfg.RateLimit.SweepInterval, logger.Component("ratelimit")).Run(ctx)
	log.Info().Str("store", cfg.RateLimit.Store).Msg("rate limiting enabled")

	e := api.NewRouter(api.RouterConfig{
		AuthService:    authService,
		MessageService: messageService,
		Verifier:       access,
		Accounts:       accounts,
		Limiter:        middleware.NewRateLimiter(store, logger.Component("ratelimit")),
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(mdb.DB),
			"redis":   handler.RedisCheck(rdb),
		},
		Cookies:      handler.CookieOptions{Secure: !cfg.IsDevelopment()},
		AllowOrigins: []string{cfg.ClientURL},
		TrustProxy:   cfg.TrustProxy,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
