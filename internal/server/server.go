package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/api"
	"github.com/makansehat/backend/internal/middleware"
	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/router"
	"github.com/makansehat/backend/internal/scheduler"
	"github.com/makansehat/backend/internal/service"
)

const Version = "v1.0.0"

// Dependencies are the external resources the server runs on. Redis and Images are
// optional.
type Dependencies struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images service.MenuImageSigner
}

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	http      *http.Server
	scheduler *scheduler.Scheduler
	log       *zap.Logger
}

// New wires the services, handlers and scheduler.
func New(cfg *config.Config, deps Dependencies, log *zap.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := repository.NewKnowledgeRepository(deps.DB)
	ingredients := service.NewIngredientService(store)
	profiles := service.NewProfileService(deps.DB)
	allergens := service.NewAllergenService(store, ingredients, profiles, log)
	cases := service.NewMenuCaseService(store, ingredients)
	auth := service.NewAuthService(deps.DB, cfg.JWTSecret, cfg.JWTTTL)
	menus := service.NewMenuService(deps.DB, ingredients, profiles, deps.Images, cfg.MenuImageURLTTL, log)

	var limiter *middleware.RateLimiter
	if deps.Redis != nil {
		limiter = middleware.NewLookupRateLimiter(deps.Redis, cfg.RateLimitRequests, cfg.RateLimitWindow, log)
	}

	engine := router.SetupRouter(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Validator:   auth,
		RateLimiter: limiter,
		Health:      api.NewHealthHandler(deps.DB, Version, log),
		Handlers: []router.RouteRegistrar{
			api.NewAuthHandler(auth, log),
			api.NewIngredientHandler(ingredients, log),
			api.NewAllergenHandler(allergens, log),
			api.NewMenuCaseHandler(cases, log),
			api.NewProfileHandler(profiles, log),
			api.NewMenuHandler(menus, log),
		},
	}, log)

	s := &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}

	if cfg.AutoAssignSchedule != "" {
		sched, err := scheduler.New(cfg.AutoAssignSchedule, menus, log)
		if err != nil {
			return nil, err
		}
		s.scheduler = sched
	}
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the scheduler and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.scheduler != nil {
		s.scheduler.Start()
	}

	s.log.Info("Starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the scheduler.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.scheduler != nil {
		if serr := s.scheduler.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
