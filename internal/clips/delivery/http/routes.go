package http

import (
	"github.com/clipforge/clipforge/internal/clips"
	"github.com/labstack/echo/v4"
)

func MapClipsRoutes(apiGroup *echo.Group, h clips.Handlers) {
	apiGroup.POST("/probe", h.Probe())
	apiGroup.POST("/clip/queue", h.QueueClip())
	apiGroup.POST("/clip", h.ClipNow())
	apiGroup.GET("/jobs", h.ListJobs())
	apiGroup.GET("/jobs/:job_id", h.GetJob())
	apiGroup.GET("/batch/status", h.BatchStatus())
	apiGroup.POST("/batch/reset", h.ResetBatch())
	apiGroup.GET("/files", h.ListFiles())
}
