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

// PartHandler implements custom parts of a car.
type PartHandler struct {
	Cars  *repository.CarRepo
	Parts *repository.PartRepo
}

func NewPartHandler(cars *repository.CarRepo, parts *repository.PartRepo) *PartHandler {
	return &PartHandler{Cars: cars, Parts: parts}
}

type partReq struct {
	Name            string `json:"name"`
	Status          string `json:"status"`
	AdvicedRevision string `json:"advicedRevision"`
}

// Create handles POST /part/:carId.
func (h *PartHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	carID, err := pathID(c, "carId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req partReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Name == "" || req.Status == "" {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cars.ByIDForUser(ctx, carID, user.ID); err != nil {
		return fail(c, err)
	}
	part := &model.Part{CarID: carID, Name: req.Name, Status: req.Status}
	if req.AdvicedRevision != "" {
		part.AdvicedRevision = &req.AdvicedRevision
	}
	if err := h.Parts.Create(ctx, part); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, part)
}

// List handles GET /part/:carId, newest first.
func (h *PartHandler) List(c echo.Context) error {
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
	parts, err := h.Parts.ListForCar(ctx, carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, parts)
}

// Update handles PUT /part/:id with partial-merge semantics.
func (h *PartHandler) Update(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req partReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	part, err := h.Parts.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if req.Name != "" {
		part.Name = req.Name
	}
	if req.Status != "" {
		part.Status = req.Status
	}
	if req.AdvicedRevision != "" {
		part.AdvicedRevision = &req.AdvicedRevision
	}
	if err := h.Parts.Save(ctx, part); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, part)
}

// Delete handles DELETE /part/:id; the part's services go with it.
func (h *PartHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	part, err := h.Parts.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Parts.Delete(ctx, part); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Part deleted successfully."))
}
