package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Status is the public liveness endpoint.
func Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "I'm up!"})
}
