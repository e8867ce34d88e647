package http

import (
	"net/http"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type clipsHandler struct {
	clipsUC clips.UseCase
	logger  logger.Logger
}

func NewClipsHandler(clipsUC clips.UseCase, log logger.Logger) clips.Handlers {
	return &clipsHandler{
		clipsUC: clipsUC,
		logger:  log,
	}
}

func (h *clipsHandler) Probe() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ProbeRequest{}
		if err := c.Bind(input); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request payload")
		}
		result, err := h.clipsUC.Probe(c.Request().Context(), input.URL)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, probeResponse{OK: true, ProbeResult: result})
	}
}

func (h *clipsHandler) QueueClip() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ClipRequest{}
		if err := c.Bind(input); err != nil {
			return fail(c, http.StatusBadRequest, "invalid start/end")
		}
		queued, err := h.clipsUC.QueueClip(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, queueResponse{OK: true, QueuedClip: queued})
	}
}

func (h *clipsHandler) ClipNow() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ClipRequest{}
		if err := c.Bind(input); err != nil {
			return fail(c, http.StatusBadRequest, "invalid start/end")
		}
		item, err := h.clipsUC.ClipNow(c.Request().Context(), input)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, fileResponse{OK: true, File: item.File, URL: item.URL})
	}
}

func (h *clipsHandler) GetJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.clipsUC.GetJob(c.Request().Context(), c.Param("job_id"))
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, jobResponse{OK: true, Job: job})
	}
}

func (h *clipsHandler) ListJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobs, err := h.clipsUC.ListJobs(c.Request().Context())
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, jobListResponse{OK: true, Items: jobs})
	}
}

func (h *clipsHandler) BatchStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := h.clipsUC.BatchStatus(c.Request().Context())
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, batchStatusResponse{OK: true, BatchStatus: status})
	}
}

func (h *clipsHandler) ResetBatch() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.ResetRequest{}
		if err := c.Bind(input); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request payload")
		}
		result, err := h.clipsUC.ResetBatch(c.Request().Context(), input.Folder)
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, resetResponse{OK: true, ResetResult: result})
	}
}

func (h *clipsHandler) ListFiles() echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := h.clipsUC.ListFiles(c.Request().Context())
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, fileListResponse{OK: true, Items: items})
	}
}

// mapError translates the error taxonomy onto the wire: validation
// failures are 400s, unknown jobs 404s, pipeline failures 500s. The
// stored message is passed through verbatim for the UI.
func (h *clipsHandler) mapError(c echo.Context, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return fail(c, http.StatusBadRequest, validationErr.Reason)
	}
	if errors.Is(err, models.ErrJobNotFound) {
		return fail(c, http.StatusNotFound, "job not found")
	}
	h.logger.Errorf("request failed: %v", err)
	return fail(c, http.StatusInternalServerError, err.Error())
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{OK: false, Error: msg})
}
