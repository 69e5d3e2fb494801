package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/api"
	"github.com/makansehat/backend/internal/middleware"
)

// RouteRegistrar is implemented by every API handler.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup, g api.Guards)
}

// Options configures the engine built by SetupRouter.
type Options struct {
	CORSOrigins []string
	Validator   middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
	Health      *api.HealthHandler
	Handlers    []RouteRegistrar
}

// Guards builds the middleware set handed to the handlers.
func Guards(validator middleware.TokenValidator, limiter *middleware.RateLimiter) api.Guards {
	rateLimit := func(c *gin.Context) { c.Next() }
	if limiter != nil {
		rateLimit = limiter.RateLimitMiddleware()
	}
	return api.Guards{
		Auth:         middleware.AuthMiddleware(validator),
		OptionalAuth: middleware.OptionalAuth(validator),
		RateLimit:    rateLimit,
		Role:         middleware.RequireRole,
	}
}

// SetupRouter configures the application routes
func SetupRouter(opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(opts.CORSOrigins))

	if opts.Health != nil {
		opts.Health.RegisterRoutes(router)
		opts.Health.RegisterRoutes(router.Group("/api/v1"))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	guards := Guards(opts.Validator, opts.RateLimiter)
	for _, h := range opts.Handlers {
		h.RegisterRoutes(v1, guards)
	}
	if opts.RateLimiter != nil {
		v1.GET("/rate-limit", guards.OptionalAuth, opts.RateLimiter.StatusHandler())
	}

	return router
}
