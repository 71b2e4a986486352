// Package main provides the planner binary: the HTTP API for location-based
// plans and its maintenance commands.
//
// @title                       Plans API
// @version                     1.0
// @description                 Location-based coordination of small social plans.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/plans-system/internal/api"
	"github.com/99minutos/plans-system/internal/api/handler"
	"github.com/99minutos/plans-system/internal/core/policy"
	"github.com/99minutos/plans-system/internal/core/ports"
	"github.com/99minutos/plans-system/internal/core/service"
	"github.com/99minutos/plans-system/internal/infrastructure/config"
	mongodb "github.com/99minutos/plans-system/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/plans-system/internal/infrastructure/db/redis"
	"github.com/99minutos/plans-system/internal/infrastructure/queue"
	"github.com/99minutos/plans-system/internal/infrastructure/telemetry"
	"github.com/99minutos/plans-system/pkg/logger"
)

const (
	appName         = "planner"
	Version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Location-based plans API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the MongoDB indexes and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})
	return cfg, log, nil
}

func migrate(ctx context.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.NewRepositories(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: appName,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cache, err := redisdb.Open(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		DedupTTL: cfg.Notify.DedupTTL,
	})
	if err != nil {
		return err
	}
	defer cache.Close()

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Core ---
	table := policy.NewTable(repos.Plans, policy.Options{
		CommentRequiresApproval: cfg.Policy.CommentRequiresApproval,
	})

	notifications := service.NewNotificationService(
		repos.Notifications, repos.Plans, repos.Users,
		cache.Dedup,
		table, logger.Component("notifications"),
	)

	var notifier ports.Notifier = notifications
	if cfg.Notify.Workers > 0 {
		dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifications, logger.Component("dispatcher"))
		dispatcher.Start(ctx)
		notifier = dispatcher
	}

	plans := service.NewPlanService(repos.Plans, repos.Users, notifier, notifications, table, logger.Component("plans"))
	ratings := service.NewRatingService(repos.Ratings, repos.Users, table, logger.Component("ratings"))
	auth := service.NewAuthService(repos.Users, table, cfg.JWTSecret, cfg.TokenTTL)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Plans:         plans,
		Notifications: notifications,
		Ratings:       ratings,
		Auth:          auth,
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(cache.Client),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Int("notify_workers", cfg.Notify.Workers).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
