// Package router wires the HTTP surface: public catalog browsing,
// auth, admin-only catalog writes and the customer order endpoints.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/model"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Airports  *handler.AirportHandler
	Routes    *handler.RouteHandler
	Airplanes *handler.AirplaneHandler
	Crew      *handler.CrewHandler
	Flights   *handler.FlightHandler
	Orders    *handler.OrderHandler
	Deposits  *handler.DepositHandler
}

// Register mounts every route.  When rdb is non-nil the public
// catalog GETs get response caching and IP rate limiting; the write
// and order paths never do.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// auth, no session required
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	// gateway callback, authenticated by HMAC signature instead of JWT
	e.POST("/v1/payments/webhook", h.Deposits.Webhook)

	// public catalog reads
	public := e.Group("/v1")
	if rdb != nil {
		public.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		public.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	public.GET("/airports", h.Airports.List)
	public.GET("/airports/:id", h.Airports.Get)
	public.GET("/routes", h.Routes.List)
	public.GET("/routes/:id", h.Routes.Get)
	public.GET("/airplane-types", h.Airplanes.ListTypes)
	public.GET("/airplanes", h.Airplanes.List)
	public.GET("/airplanes/:id", h.Airplanes.Get)
	public.GET("/flights", h.Flights.List)
	public.GET("/flights/:id", h.Flights.Get)

	// any authenticated user
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	user.GET("/me", h.Auth.Me)
	user.POST("/orders", h.Orders.Create)
	user.GET("/orders", h.Orders.List)
	user.GET("/orders/:id", h.Orders.Get)
	user.POST("/orders/:id/cancel", h.Orders.Cancel)
	user.POST("/deposit", h.Deposits.CreateSession)

	// admin-only catalog writes; crew data is not public at all
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/airports", h.Airports.Create)
	admin.PUT("/airports/:id", h.Airports.Update)
	admin.DELETE("/airports/:id", h.Airports.Delete)
	admin.POST("/routes", h.Routes.Create)
	admin.PUT("/routes/:id", h.Routes.Update)
	admin.DELETE("/routes/:id", h.Routes.Delete)
	admin.POST("/airplane-types", h.Airplanes.CreateType)
	admin.PUT("/airplane-types/:id", h.Airplanes.UpdateType)
	admin.DELETE("/airplane-types/:id", h.Airplanes.DeleteType)
	admin.POST("/airplanes", h.Airplanes.Create)
	admin.PUT("/airplanes/:id", h.Airplanes.Update)
	admin.DELETE("/airplanes/:id", h.Airplanes.Delete)
	admin.GET("/crew", h.Crew.List)
	admin.GET("/crew/:id", h.Crew.Get)
	admin.POST("/crew", h.Crew.Create)
	admin.PUT("/crew/:id", h.Crew.Update)
	admin.DELETE("/crew/:id", h.Crew.Delete)
	admin.POST("/flights", h.Flights.Create)
	admin.PUT("/flights/:id", h.Flights.Update)
	admin.DELETE("/flights/:id", h.Flights.Delete)
}
