// Command api runs the user registration HTTP service.
//
// @title                       User Registration API
// @version                     1.0
// @description                 Registers users, validates credentials and issues bearer tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mykare/user-registration/internal/api"
	"github.com/mykare/user-registration/internal/api/handler"
	"github.com/mykare/user-registration/internal/core/ports"
	"github.com/mykare/user-registration/internal/core/service"
	"github.com/mykare/user-registration/internal/infrastructure/config"
	mongodb "github.com/mykare/user-registration/internal/infrastructure/db/mongo"
	redisdb "github.com/mykare/user-registration/internal/infrastructure/db/redis"
	"github.com/mykare/user-registration/internal/infrastructure/db/sqlite"
	"github.com/mykare/user-registration/internal/infrastructure/telemetry"
	"github.com/mykare/user-registration/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.OTel.ServiceName,
	})

	if err := run(ctx, cfg); err != nil {
		logger.Get().Fatal().Err(err).Msg("service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	pingers := make(map[string]handler.Pinger)

	repo, closeStore, err := openStore(ctx, cfg, logger.For("store"), pingers)
	if err != nil {
		return err
	}
	defer closeStore()

	// Left as a nil interface when Redis is disabled so lockout is skipped.
	var limiter ports.LoginLimiter
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		limiter = redisdb.NewLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.LockoutWindow)
		pingers["redis"] = redisdb.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login lockout enabled")
	}

	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL())
	if err != nil {
		return err
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	bootstrap := service.NewAdminBootstrap(repo, hasher, service.AdminAccount{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, logger.For("bootstrap"))
	if err := bootstrap.EnsureAdmin(ctx); err != nil {
		return err
	}

	users := service.NewUserService(repo, limiter, hasher, tokens, cfg.Admin.Email, logger.For("users"))

	e := api.NewRouter(api.Dependencies{
		ServiceName: cfg.OTel.ServiceName,
		Users:       users,
		Tokens:      tokens,
		Pingers:     pingers,
		Logger:      logger.For("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
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

// openStore connects the configured user directory and registers its
// readiness check.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, pingers map[string]handler.Pinger) (ports.UserRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  cfg.OTel.ServiceName,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}

		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		pingers["mongodb"] = mongodb.NewPinger(db)
		return repo, closeFn, nil

	default:
		db, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("sqlite close failed")
			}
		}

		if err := db.Migrate(ctx, log); err != nil {
			closeFn()
			return nil, nil, err
		}
		pingers["sqlite"] = db
		return sqlite.NewUserRepository(db), closeFn, nil
	}
}
