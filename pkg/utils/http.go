package utils

import (
	"github.com/labstack/echo/v4"
)

// GetRequestID pulls the request id assigned by the echo middleware.
func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
