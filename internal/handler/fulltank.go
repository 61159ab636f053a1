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

// FullTankHandler implements the fuel fill-up journal of a car.
type FullTankHandler struct {
	Cars      *repository.CarRepo
	FullTanks *repository.FullTankRepo
}

func NewFullTankHandler(cars *repository.CarRepo, fullTanks *repository.FullTankRepo) *FullTankHandler {
	return &FullTankHandler{Cars: cars, FullTanks: fullTanks}
}

type fullTankReq struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Cost     float64 `json:"cost"`
	Mileage  int64   `json:"mileage"`
	Date     string  `json:"date"`
}

// Create handles POST /full-tank/:carId.
func (h *FullTankHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	carID, err := pathID(c, "carId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req fullTankReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Date == "" || req.Quantity <= 0 {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cars.ByIDForUser(ctx, carID, user.ID); err != nil {
		return fail(c, err)
	}
	entry := &model.FullTankEntry{
		CarID:    carID,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Cost:     req.Cost,
		Mileage:  req.Mileage,
		Date:     req.Date,
	}
	if err := h.FullTanks.Create(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// List handles GET /full-tank/:carId, newest date first.
func (h *FullTankHandler) List(c echo.Context) error {
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
	entries, err := h.FullTanks.ListForCar(ctx, carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Delete handles DELETE /full-tank/:id.
func (h *FullTankHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.FullTanks.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.FullTanks.Delete(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Full tank entry deleted successfully."))
}
