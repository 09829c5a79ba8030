package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinetix/checkout-service/internal/config"
	"github.com/cinetix/checkout-service/internal/handler"
	"github.com/cinetix/checkout-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCheckout registers the booking-modal session routes under
// /v1/checkout.  The whole group sits behind the read-only JWT gate
// and the Redis token-bucket rate limiter: an unauthenticated open
// attempt gets a login_required response with return context instead
// of a session.  With rdb nil the limiter is a pass-through.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/checkout")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RateLimit(rlCfg, rdb))

	// session lifecycle: open is POST, close is DELETE.  Close maps
	// to the modal's onClose and can succeed at most once per session.
	g.POST("/sessions", h.OpenSession)
	g.GET("/sessions/:id", h.GetSession)
	g.DELETE("/sessions/:id", h.CloseSession)

	// availability and seat picking
	g.POST("/sessions/:id/refresh", h.RefreshSeats)
	g.POST("/sessions/:id/seats/toggle", h.ToggleSeat)

	// step transitions and payment entry
	g.POST("/sessions/:id/next", h.Next)
	g.POST("/sessions/:id/back", h.Back)
	g.PUT("/sessions/:id/customer", h.EditCustomer)
	g.POST("/sessions/:id/submit", h.Submit)
}
