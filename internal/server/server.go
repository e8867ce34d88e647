package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipforge/clipforge/internal/batch"
	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	maxHeaderBytes = 1 << 20
	ctxTimeout     = 5
	readTimeout    = 15 * time.Second
	idleTimeout    = 60 * time.Second
	// no write timeout: the synchronous clip endpoint can run for minutes
	writeTimeout = 0
)

type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	jobRepo    clips.JobRepository
	sequencer  *batch.Sequencer
	media      pipeline.Adapter
	dispatcher *worker.Dispatcher
	logger     logger.Logger
}

func NewServer(
	cfg *config.Config,
	jobRepo clips.JobRepository,
	sequencer *batch.Sequencer,
	media pipeline.Adapter,
	dispatcher *worker.Dispatcher,
	logger logger.Logger,
) *Server {
	return &Server{
		echo:       echo.New(),
		cfg:        cfg,
		jobRepo:    jobRepo,
		sequencer:  sequencer,
		media:      media,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *Server) Run() error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}
	s.echo.Server.MaxHeaderBytes = maxHeaderBytes
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5500"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	server := &http.Server{
		Addr:         s.cfg.Server.Port,
		ReadTimeout:  readTimeout,
		IdleTimeout:  idleTimeout,
		WriteTimeout: writeTimeout,
	}
	go func() {
		if err := s.echo.StartServer(server); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("error starting server: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit

	ctx, shutdown := context.WithTimeout(context.Background(), time.Second*ctxTimeout)
	defer shutdown()
	s.logger.Infof("shutting down server")
	return s.echo.Server.Shutdown(ctx)
}
