package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/bootstrap"
	"github.com/yigit/alumnihub/internal/config"
)

// Server owns the HTTP listener and the database pool
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads config, connects and migrates the database, and builds the router
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	serveUploads(router, cfg.Storage.Path, lgr)
	router.GET("/health", healthHandler(dbPool))

	return &Server{config: cfg, router: router, dbPool: dbPool, logger: lgr}, nil
}

// serveUploads exposes stored attachments and avatars under /uploads
func serveUploads(router *gin.Engine, dir string, lgr zerolog.Logger) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		lgr.Error().Err(err).Str("path", dir).Msg("Cannot create uploads directory, attachments will not be served")
		return
	}
	router.Static("/uploads", dir)
}

// pinger is satisfied by *pgxpool.Pool
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports 503 while the database is unreachable
func healthHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unavailable").
				WithSeverity(dto.ErrorSeverityCritical)
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	}
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.router,
		// five 10MB attachments do not fit in a short read timeout
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("Alumni API listening")
		listenErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			s.dbPool.Close()
			return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}
	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests for up to 10s and closes the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	if s.http != nil {
		if err = s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP shutdown did not complete")
			err = fmt.Errorf("http shutdown: %w", err)
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	s.logger.Info().Msg("Server stopped")
	return err
}
