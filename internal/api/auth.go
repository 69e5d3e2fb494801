package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/middleware"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

type AuthHandler struct {
	auth *service.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	auth := router.Group("/auth")
	{
		// an admin token allows choosing the new account's role
		auth.POST("/register", g.OptionalAuth, h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	asAdmin := middleware.RoleFrom(c) == models.RoleAdmin
	resp, err := h.auth.Register(c.Request.Context(), &req, asAdmin)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("User registered",
		zap.String("user_id", resp.User.ID.String()),
		zap.String("role", resp.User.Role),
	)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
