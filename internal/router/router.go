// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// RegisterRoutes registers the operational endpoints that need neither
// authentication nor versioning: the health check and Prometheus metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the /v1/auth endpoints plus the authenticated
// /v1/me profile route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleOrganizer, model.RoleCustomer))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog endpoints. When a
// Redis client is available, responses are cached and reads are rate
// limited; with rdb == nil both middlewares are skipped and the routes
// serve straight from the database.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, rdb *redis.Client) {
	g := e.Group("/v1")
	if rdb != nil {
		g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	g.GET("/events", ev.List)
	g.GET("/events/:id", ev.Get)
	g.GET("/events/:id/seats", ev.SeatMap)
}

// RegisterEvents registers the organizer-only event management routes.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, jwtSecret string) {
	g := e.Group("/v1/events")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOrganizer))
	g.POST("", ev.Create)
	g.PUT("/:id", ev.Update)
	g.DELETE("/:id", ev.Delete)
}

// RegisterTickets registers the ticket lifecycle routes. Purchase,
// listing and refund belong to any authenticated holder; validate and
// stats are organizer-only since they act on an event's gate and sales.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, jwtSecret string) {
	holder := e.Group("/v1/tickets")
	holder.Use(middleware.JWTAuth(jwtSecret))
	holder.Use(middleware.RequireRole(model.RoleOrganizer, model.RoleCustomer))
	holder.POST("/purchase", t.Purchase)
	holder.GET("/mine", t.Mine)
	holder.POST("/:id/refund", t.Refund)

	org := e.Group("/v1/tickets")
	org.Use(middleware.JWTAuth(jwtSecret))
	org.Use(middleware.RequireRole(model.RoleOrganizer))
	org.POST("/validate", t.Validate)
	org.GET("/stats/:eventId", t.Stats)
}
