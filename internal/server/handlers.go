package server

import (
	"net/http"

	clipsHttp "github.com/clipforge/clipforge/internal/clips/delivery/http"
	clipsUsecase "github.com/clipforge/clipforge/internal/clips/usecase"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	clipsUC := clipsUsecase.NewClipsUseCase(s.cfg, s.jobRepo, s.sequencer, s.media, s.dispatcher, s.logger)
	clipsHandlers := clipsHttp.NewClipsHandler(clipsUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)
	e.Use(echoMw.RequestID())
	e.Use(echoMw.Recover())

	api := e.Group("/api")
	clipsHttp.MapClipsRoutes(api, clipsHandlers)
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})

	// completed clips are served straight off disk
	e.Static("/clips", s.cfg.Clips.Dir)
	return nil
}
