package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carkit/carkit-api/internal/identity"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/utils"
)

// statusMsg is the uniform error/status body: a code and a human-readable
// message, never internals.
func statusMsg(code int, msg string) echo.Map {
	return echo.Map{"status": code, "msg": msg}
}

// fail maps an error to the response taxonomy at the handler boundary.
// Raw storage errors never reach the client; anything unclassified becomes
// a logged 500.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, statusMsg(http.StatusNotFound, "The entity hasn't been found."))
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusUnprocessableEntity, statusMsg(http.StatusUnprocessableEntity, "Email already in use."))
	case errors.Is(err, repository.ErrPasswordResetRequired):
		return c.JSON(http.StatusMultipleChoices, statusMsg(http.StatusMultipleChoices, "Need reset password."))
	case errors.Is(err, identity.ErrVerificationFailed):
		return c.JSON(http.StatusUnauthorized, statusMsg(http.StatusUnauthorized, "Identity verification failed."))
	case errors.Is(err, utils.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, statusMsg(http.StatusUnauthorized, "No valid token found."))
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, statusMsg(http.StatusInternalServerError, "Something wrong happened."))
	}
}

// unprocessable is the 422 returned for missing or malformed required fields.
func unprocessable(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, statusMsg(http.StatusUnprocessableEntity, msg))
}
