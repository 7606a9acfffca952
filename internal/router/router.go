// Package router defines how HTTP routes are registered for the server.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/admobility/admobility/internal/config"
	"github.com/admobility/admobility/internal/handler"
	"github.com/admobility/admobility/internal/metrics"
	"github.com/admobility/admobility/internal/middleware"
)

// RegisterInfra registers the endpoints outside the gate's jurisdiction:
// health check, metrics scrape and the uploaded images.
func RegisterInfra(e *echo.Echo, uploadDir string) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
	e.Static("/uploads", uploadDir)
}

// RegisterAPI registers the JSON API. The auth endpoints are reachable
// without a session; everything else resolves the session itself and
// answers 401/403 as needed. The sign-in endpoint additionally sits behind
// the per-IP rate limiter.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, v *handler.VehicleHandler, adv *handler.AdvertiserHandler,
	rlCfg config.RateLimitConfig, rdb *redis.Client) {
	auth := e.Group("/api/auth")
	auth.GET("/session", a.Session)
	auth.POST("/signin", a.SignIn, middleware.AuthRateLimit(rlCfg, rdb))
	auth.POST("/signout", a.SignOut)
	auth.POST("/register/vehicle-owner", a.RegisterVehicleOwner, middleware.AuthRateLimit(rlCfg, rdb))
	auth.POST("/register/advertiser", a.RegisterAdvertiser, middleware.AuthRateLimit(rlCfg, rdb))

	e.GET("/api/user", a.User)
	e.GET("/api/vehicles", v.List)
	e.POST("/api/vehicles", v.Register)
	e.GET("/api/advertisers/:id", adv.Get)
}

// RegisterPages registers the page routes the edge gate protects. The
// handlers serve minimal descriptors; rendering is the UI's concern.
func RegisterPages(e *echo.Echo) {
	e.GET("/", handler.Page("home"))
	e.GET("/login", handler.Page("login"))
	e.GET("/register", handler.Page("register"))
	e.GET("/terms", handler.Page("terms"))
	e.GET("/privacy", handler.Page("privacy"))
	e.GET("/logout", handler.Page("logout"))
	e.GET("/onboarding/vehicle-info", handler.Page("onboarding-vehicle-info"))
	e.GET("/dashboard", handler.Page("dashboard"))
	e.GET("/dashboard/vehicle/new", handler.Page("vehicle-new"))
	e.GET("/dashboard/campaigns", handler.Page("campaigns"))
}
