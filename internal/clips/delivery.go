package clips

import "github.com/labstack/echo/v4"

type Handlers interface {
	Probe() echo.HandlerFunc
	QueueClip() echo.HandlerFunc
	ClipNow() echo.HandlerFunc
	GetJob() echo.HandlerFunc
	ListJobs() echo.HandlerFunc
	BatchStatus() echo.HandlerFunc
	ResetBatch() echo.HandlerFunc
	ListFiles() echo.HandlerFunc
}
