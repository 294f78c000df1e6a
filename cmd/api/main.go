// @title        Social API
// @version      1.0
// @description  Accounts, sessions, follow graph and notifications for the social network.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/chirpnet/social-api/internal/api"
	"github.com/chirpnet/social-api/internal/api/handler"
	"github.com/chirpnet/social-api/internal/core/service"
	mongodb "github.com/chirpnet/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chirpnet/social-api/internal/infrastructure/db/redis"
	"github.com/chirpnet/social-api/internal/infrastructure/queue"
	"github.com/chirpnet/social-api/internal/pkg/config"
	"github.com/chirpnet/social-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "social-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	follows := mongodb.NewFollowRepository(db)
	notifications := mongodb.NewNotificationRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, follows, notifications); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	// --- Notification pipeline ---
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Social.NotifyWorkers, notifications, logger.Component("notifications"))
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	sessions := service.NewSessionService(cfg.JWTSecret)
	authService := service.NewAuthService(users, follows, sessions, logger.Component("auth"))
	graphService := service.NewGraphService(users, follows, dispatcher, logger.Component("graph"),
		service.WithPairLocker(redisdb.NewPairLock(rdb, cfg.Redis.LockTTL, logger.Component("pair_lock"))),
		service.WithSuggestSizes(cfg.Social.SuggestPool, cfg.Social.SuggestLimit),
	)
	profileService := service.NewProfileService(users, follows, logger.Component("profile"))
	notificationService := service.NewNotificationService(notifications)

	e := api.NewRouter(api.Deps{
		Log:           logger.Component("http"),
		ClientURL:     cfg.ClientURL,
		SecureCookie:  cfg.Secure(),
		Auth:          authService,
		Profiles:      profileService,
		Graph:         graphService,
		Notifications: notificationService,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": mongoCheck(mongoClient),
			"redis":   redisCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// No request can emit anymore; flush what is queued.
	stopDispatch()
	dispatcher.Wait()

	log.Info().Msg("shutdown complete")
}

func mongoCheck(client *mongo.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func redisCheck(client *redis.Client) handler.DependencyCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
