package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/carkit/carkit-api/internal/middleware"
	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/repository"
)

// MileageHandler implements the mileage journal of a car.
type MileageHandler struct {
	Cars     *repository.CarRepo
	Mileages *repository.MileageRepo
}

func NewMileageHandler(cars *repository.CarRepo, mileages *repository.MileageRepo) *MileageHandler {
	return &MileageHandler{Cars: cars, Mileages: mileages}
}

type mileageReq struct {
	Mileage int64  `json:"mileage"`
	Date    string `json:"date"`
}

// Create handles POST /mileage/:carId.  The car must belong to the caller.
func (h *MileageHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	carID, err := pathID(c, "carId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req mileageReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Date == "" || req.Mileage <= 0 {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cars.ByIDForUser(ctx, carID, user.ID); err != nil {
		return fail(c, err)
	}
	entry := &model.MileageEntry{CarID: carID, Mileage: req.Mileage, Date: req.Date}
	if err := h.Mileages.Create(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// List handles GET /mileage/:carId, newest date first.
func (h *MileageHandler) List(c echo.Context) error {
	user := mw.CurrentUser(c)
	carID, err := pathID(c, "carId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cars.ByIDForUser(ctx, carID, user.ID); err != nil {
		return fail(c, err)
	}
	entries, err := h.Mileages.ListForCar(ctx, carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Delete handles DELETE /mileage/:id.
func (h *MileageHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Mileages.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Mileages.Delete(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Mileage entry deleted successfully."))
}
