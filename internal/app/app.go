package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "github.com/14kear/online_voting/polls-service/internal/app/http"
	"github.com/14kear/online_voting/polls-service/internal/cache/redis"
	"github.com/14kear/online_voting/polls-service/internal/config"
	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/14kear/online_voting/polls-service/internal/lib/firebase"
	"github.com/14kear/online_voting/polls-service/internal/lib/jwt"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/repo/memory"
	"github.com/14kear/online_voting/polls-service/internal/repo/mongo"
	"github.com/14kear/online_voting/polls-service/internal/repo/postgres"
	"github.com/14kear/online_voting/polls-service/internal/services"
	"github.com/14kear/online_voting/polls-service/internal/services/auth"
)

type App struct {
	HTTPServer *httpapp.App
	closers    []func(ctx context.Context) error
}

type storage interface {
	services.PollStorage
	services.VoteStorage
	auth.UserSaver
	auth.UserProvider
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	a := &App{}

	store, err := a.newStorage(ctx, log, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var resultsCache services.ResultsCache
	if cfg.Redis.Addr != "" {
		cache, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ResultsTTL)
		if err != nil {
			_ = a.Stop(ctx)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, func(context.Context) error { return cache.Close() })
		resultsCache = cache
		log.Info("results cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	var (
		verifier    middleware.TokenVerifier
		authHandler *handlers.AuthHandler
	)
	switch cfg.Auth.Provider {
	case config.AuthProviderFirebase:
		fb, err := firebase.New(ctx, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			_ = a.Stop(ctx)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		verifier = fb
	default:
		verifier = jwt.NewVerifier(cfg.Auth.JWTSecret)
		authService := auth.NewAuth(log, store, store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authHandler = handlers.NewAuthHandler(authService)
	}

	pollsService := services.NewPolls(log, store, store, resultsCache)

	a.HTTPServer = httpapp.NewApp(
		log,
		httpapp.Options{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
			CORSOrigins:  cfg.HTTP.CORSOrigins,
		},
		handlers.NewPollsHandler(pollsService),
		authHandler,
		middleware.NewAuthMiddleware(log, verifier),
	)

	return a, nil
}

func (a *App) newStorage(ctx context.Context, log *slog.Logger, cfg config.StorageConfig) (storage, error) {
	switch cfg.Driver {
	case config.StorageDriverMongo:
		s, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		log.Info("storage connected", slog.String("driver", cfg.Driver))
		return s, nil
	case config.StorageDriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	default:
		s, err := postgres.New(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return s.Close() })
		log.Info("storage connected", slog.String("driver", cfg.Driver))
		return s, nil
	}
}

// Stop shuts the HTTP server down and then releases storage and cache
// connections in reverse order of creation.
func (a *App) Stop(ctx context.Context) error {
	var errs []error

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
