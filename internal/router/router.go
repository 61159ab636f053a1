package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/carkit/carkit-api/internal/config"
	"github.com/carkit/carkit-api/internal/handler"
	"github.com/carkit/carkit-api/internal/middleware"
	"github.com/carkit/carkit-api/internal/storage"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Users     *handler.UserHandler
	OAuth     *handler.OAuthHandler
	Cars      *handler.CarHandler
	Mileages  *handler.MileageHandler
	FullTanks *handler.FullTankHandler
	Parts     *handler.PartHandler
	Services  *handler.ServiceHandler
	Spendings *handler.SpendingHandler
}

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

// Register wires every route under cfg.BasePath. Routes split into a
// public set and a JWT-protected set; uploaded images are served as
// static files outside the base path.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	api := e.Group(cfg.BasePath)
	api.Use(middleware.RateLimit(rdb, 100, time.Minute))

	public := []route{
		{echo.GET, "/status", handler.Status},
		{echo.POST, "/user/register", h.Users.Register},
		{echo.POST, "/user/login", h.Users.Login},
		{echo.GET, "/user/refresh-token/:refreshToken", h.Users.RefreshToken},
		{echo.POST, "/auth/apple", h.OAuth.AppleAuth},
		{echo.POST, "/auth/google", h.OAuth.GoogleAuth},
	}
	for _, r := range public {
		api.Add(r.method, r.path, r.handler)
	}

	protected := []route{
		{echo.GET, "/user/me", h.Users.Me},
		{echo.PUT, "/user/update", h.Users.Update},
		{echo.DELETE, "/user", h.Users.Delete},
		{echo.DELETE, "/user/image", h.Users.DeleteImage},
		{echo.POST, "/user/logout", h.Users.Logout},

		{echo.POST, "/car", h.Cars.Create},
		{echo.GET, "/car", h.Cars.List},
		{echo.GET, "/car/:id", h.Cars.Get},
		{echo.PUT, "/car/:id", h.Cars.Update},
		{echo.DELETE, "/car/:id", h.Cars.Delete},

		{echo.POST, "/mileage/:carId", h.Mileages.Create},
		{echo.GET, "/mileage/:carId", h.Mileages.List},
		{echo.DELETE, "/mileage/:id", h.Mileages.Delete},

		{echo.POST, "/full-tank/:carId", h.FullTanks.Create},
		{echo.GET, "/full-tank/:carId", h.FullTanks.List},
		{echo.DELETE, "/full-tank/:id", h.FullTanks.Delete},

		{echo.POST, "/part/:carId", h.Parts.Create},
		{echo.GET, "/part/:carId", h.Parts.List},
		{echo.PUT, "/part/:id", h.Parts.Update},
		{echo.DELETE, "/part/:id", h.Parts.Delete},

		{echo.POST, "/service/:partId", h.Services.Create},
		{echo.GET, "/service/:partId", h.Services.List},
		{echo.PUT, "/service/:id", h.Services.Update},
		{echo.DELETE, "/service/:id", h.Services.Delete},

		{echo.POST, "/spending/:carId", h.Spendings.Create},
		{echo.GET, "/spending/:carId", h.Spendings.List},
		{echo.DELETE, "/spending/:id", h.Spendings.Delete},
	}
	auth := middleware.JWTAuth(cfg.JWTSecret, h.Users.Users, rdb)
	for _, r := range protected {
		api.Add(r.method, r.path, r.handler, auth)
	}

	e.Static(storage.PublicPath, cfg.ImageDir)
}
