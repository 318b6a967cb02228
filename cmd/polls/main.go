package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/14kear/online_voting/polls-service/internal/app"
	"github.com/14kear/online_voting/polls-service/internal/config"
	"github.com/14kear/online_voting/polls-service/internal/lib/logger"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.MustLoad()

	log := logger.New(cfg.Env)

	if envErr != nil {
		log.Debug("no .env file loaded", sl.Err(envErr))
	}

	if cfg.Env == logger.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting polls service",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("auth", cfg.Auth.Provider),
		slog.Int("port", cfg.HTTP.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init application", sl.Err(err))
		os.Exit(1)
	}

	go func() {
		if err := application.HTTPServer.Run(); err != nil {
			log.Error("http server failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
