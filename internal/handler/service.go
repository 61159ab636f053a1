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

// ServiceHandler implements maintenance services performed on a part.
type ServiceHandler struct {
	Parts    *repository.PartRepo
	Services *repository.ServiceRepo
}

func NewServiceHandler(parts *repository.PartRepo, services *repository.ServiceRepo) *ServiceHandler {
	return &ServiceHandler{Parts: parts, Services: services}
}

type serviceReq struct {
	Date    string `json:"date"`
	Mileage int64  `json:"mileage"`
}

// Create handles POST /service/:partId.
func (h *ServiceHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	partID, err := pathID(c, "partId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Date == "" {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Parts.ByIDForUser(ctx, partID, user.ID); err != nil {
		return fail(c, err)
	}
	svc := &model.Service{PartID: partID, Date: req.Date, Mileage: req.Mileage}
	if err := h.Services.Create(ctx, svc); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

// List handles GET /service/:partId, most recent date first.
func (h *ServiceHandler) List(c echo.Context) error {
	user := mw.CurrentUser(c)
	partID, err := pathID(c, "partId")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Parts.ByIDForUser(ctx, partID, user.ID); err != nil {
		return fail(c, err)
	}
	services, err := h.Services.ListForPart(ctx, partID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, services)
}

// Update handles PUT /service/:id with partial-merge semantics.
func (h *ServiceHandler) Update(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if req.Date != "" {
		svc.Date = req.Date
	}
	if req.Mileage > 0 {
		svc.Mileage = req.Mileage
	}
	if err := h.Services.Save(ctx, svc); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete handles DELETE /service/:id.
func (h *ServiceHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	svc, err := h.Services.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Services.Delete(ctx, svc); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Service deleted successfully."))
}
