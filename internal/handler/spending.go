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

// SpendingHandler implements money spent on a car: fuel, parts,
// services or anything else the owner wants to track.
type SpendingHandler struct {
	Cars      *repository.CarRepo
	Parts     *repository.PartRepo
	Services  *repository.ServiceRepo
	Spendings *repository.SpendingRepo
}

func NewSpendingHandler(cars *repository.CarRepo, parts *repository.PartRepo, services *repository.ServiceRepo, spendings *repository.SpendingRepo) *SpendingHandler {
	return &SpendingHandler{Cars: cars, Parts: parts, Services: services, Spendings: spendings}
}

type spendingReq struct {
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Recurrence string  `json:"recurrence"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	PartID     uint64  `json:"partId"`
	ServiceID  uint64  `json:"serviceId"`
}

// Create handles POST /spending/:carId. Optional part and service
// references must resolve within the caller's garage.
func (h *SpendingHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	carID, err := pathID(c, "carId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req spendingReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Date == "" || req.Amount <= 0 {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cars.ByIDForUser(ctx, carID, user.ID); err != nil {
		return fail(c, err)
	}

	entry := &model.SpendingEntry{CarID: carID, Amount: req.Amount, Date: req.Date, Type: req.Type}
	if req.Name != "" {
		entry.Name = &req.Name
	}
	if req.Recurrence != "" {
		entry.Recurrence = &req.Recurrence
	}
	if req.Quantity > 0 {
		entry.Quantity = &req.Quantity
	}
	if req.Unit != "" {
		entry.Unit = &req.Unit
	}
	if req.PartID > 0 {
		part, err := h.Parts.ByIDForUser(ctx, req.PartID, user.ID)
		if err != nil {
			return fail(c, err)
		}
		if part.CarID != carID {
			return fail(c, repository.ErrNotFound)
		}
		entry.PartID = &req.PartID
	}
	if req.ServiceID > 0 {
		svc, err := h.Services.ByIDForUser(ctx, req.ServiceID, user.ID)
		if err != nil {
			return fail(c, err)
		}
		// The service must hang off this car, via its part.
		svcPart, err := h.Parts.ByIDForUser(ctx, svc.PartID, user.ID)
		if err != nil {
			return fail(c, err)
		}
		if svcPart.CarID != carID {
			return fail(c, repository.ErrNotFound)
		}
		entry.ServiceID = &req.ServiceID
	}

	if err := h.Spendings.Create(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// List handles GET /spending/:carId, most recent date first.
func (h *SpendingHandler) List(c echo.Context) error {
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
	entries, err := h.Spendings.ListForCar(ctx, carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Delete handles DELETE /spending/:id.
func (h *SpendingHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Spendings.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Spendings.Delete(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Spending entry deleted successfully."))
}
