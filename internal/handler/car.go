package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/carkit/carkit-api/internal/middleware"
	"github.com/carkit/carkit-api/internal/model"
	"github.com/carkit/carkit-api/internal/queue"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/storage"
)

const carImageMaxDim = 800

// CarHandler implements CRUD for cars.  Every lookup is scoped to the
// authenticated owner; a car that exists but belongs to someone else is a
// 404, identical to a missing id.
type CarHandler struct {
	Cars   *repository.CarRepo
	Images *storage.Store
	Events *queue.Publisher
}

func NewCarHandler(cars *repository.CarRepo, images *storage.Store, events *queue.Publisher) *CarHandler {
	return &CarHandler{Cars: cars, Images: images, Events: events}
}

type carReq struct {
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Type           string `json:"type"`
	Year           int    `json:"year"`
	MileageAtStart int64  `json:"mileageAtStart"`
	ImageData      string `json:"imageData"`
}

// pathID parses the :id (or other named) path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// Create handles POST /car.
func (h *CarHandler) Create(c echo.Context) error {
	user := mw.CurrentUser(c)
	var req carReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}
	if req.Name == "" {
		return unprocessable(c, "Required fields missing.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car := &model.Car{
		UserID:         user.ID,
		Name:           req.Name,
		Brand:          req.Brand,
		Model:          req.Model,
		Type:           req.Type,
		Year:           req.Year,
		MileageAtStart: req.MileageAtStart,
	}
	if req.ImageData != "" {
		link, err := h.Images.SaveBase64(req.ImageData, carImageMaxDim)
		if err != nil {
			return unprocessable(c, "Invalid image data.")
		}
		car.ImageURL = &link
	}
	if err := h.Cars.Create(ctx, car); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Get handles GET /car/:id.
func (h *CarHandler) Get(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// List handles GET /car.
func (h *CarHandler) List(c echo.Context) error {
	user := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cars, err := h.Cars.ListForUser(ctx, user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cars)
}

// Update handles PUT /car/:id with partial-merge semantics: zero-valued
// fields in the body leave the stored values untouched.
func (h *CarHandler) Update(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, "Invalid request body.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}

	if req.Name != "" {
		car.Name = req.Name
	}
	if req.Brand != "" {
		car.Brand = req.Brand
	}
	if req.Model != "" {
		car.Model = req.Model
	}
	if req.Type != "" {
		car.Type = req.Type
	}
	if req.Year != 0 {
		car.Year = req.Year
	}
	if req.MileageAtStart != 0 {
		car.MileageAtStart = req.MileageAtStart
	}
	if req.ImageData != "" {
		// Store the replacement before touching the old file so a bad
		// payload leaves the current image intact.
		link, err := h.Images.SaveBase64(req.ImageData, carImageMaxDim)
		if err != nil {
			return unprocessable(c, "Invalid image data.")
		}
		if car.ImageURL != nil {
			if err := h.Images.Delete(*car.ImageURL); err != nil {
				c.Logger().Warnf("delete old car image: %v", err)
			}
		}
		car.ImageURL = &link
	}

	if err := h.Cars.Save(ctx, car); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Delete handles DELETE /car/:id.  The stored image is released best-effort;
// the cascade to child rows runs in one transaction.
func (h *CarHandler) Delete(c echo.Context) error {
	user := mw.CurrentUser(c)
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, repository.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.ByIDForUser(ctx, id, user.ID)
	if err != nil {
		return fail(c, err)
	}
	if car.ImageURL != nil {
		if err := h.Images.Delete(*car.ImageURL); err != nil {
			c.Logger().Warnf("delete car image: %v", err)
		}
	}
	if err := h.Cars.Delete(ctx, car); err != nil {
		return fail(c, err)
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{Type: queue.EventCarDeleted, UserID: user.ID, Email: user.Email, CarID: car.ID, CarName: car.Name})

	return c.JSON(http.StatusOK, statusMsg(http.StatusOK, "Car deleted successfully."))
}
