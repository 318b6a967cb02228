package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
}

type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// NewApp builds the gin engine. authHandler may be nil when identities come
// from an external provider.
func NewApp(
	log *slog.Logger,
	opts Options,
	pollsHandler *handlers.PollsHandler,
	authHandler *handlers.AuthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *App {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// /api/polls/*, /api/auth/*
	api := r.Group("/api")
	{
		publicPolls := api.Group("/polls", authMiddleware.Optional())
		routes.RegisterPublicRoutes(publicPolls, pollsHandler)

		privatePolls := api.Group("/polls", authMiddleware.Required())
		routes.RegisterPrivateRoutes(privatePolls, pollsHandler)

		if authHandler != nil {
			routes.RegisterAuthRoutes(api.Group("/auth"), authHandler)
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Polling API is running")
	})

	// Healthcheck
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return &App{
		log:    log,
		engine: r,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      r,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	a.log.Info("http server is running", slog.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "httpapp.Stop"

	a.log.Info("stopping http server", slog.String("addr", a.server.Addr))

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
