package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/middleware"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

// MenuHandler serves the weekly menus, student choices, the kitchen summary and the
// manual safe-menu assignment.
type MenuHandler struct {
	menus *service.MenuService
	log   *zap.Logger
}

func NewMenuHandler(menus *service.MenuService, log *zap.Logger) *MenuHandler {
	return &MenuHandler{menus: menus, log: log}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	admin := g.Role(models.RoleAdmin)

	menus := router.Group("/menus", g.Auth)
	{
		menus.GET("/week", h.Week)
		menus.PUT("", admin, h.UpsertMenu)
		menus.DELETE("/:id", admin, h.DeleteMenu)
		menus.POST("/:id/image-upload", admin, h.ImageUpload)
	}

	choices := router.Group("/menu-choices", g.Auth)
	{
		choices.GET("", h.Choices)
		choices.PUT("", h.Choose)
	}

	router.GET("/kitchen/summary", g.Auth, g.Role(models.RoleKitchen, models.RoleAdmin), h.KitchenSummary)
	router.POST("/admin/auto-assign", g.Auth, admin, h.AutoAssign)
}

func (h *MenuHandler) Week(c *gin.Context) {
	week, err := h.menus.Week(c.Request.Context(), c.Query("start"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *MenuHandler) UpsertMenu(c *gin.Context) {
	var req types.UpsertMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	view, err := h.menus.UpsertMenu(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		invalidBody(c, "invalid menu id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menus.DeleteMenu(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MenuHandler) ImageUpload(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req types.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	resp, err := h.menus.ImageUploadURL(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MenuHandler) Choose(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	var req types.MenuChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, "invalid request body")
		return
	}

	choice, err := h.menus.Choose(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

func (h *MenuHandler) Choices(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	week, err := h.menus.Choices(c.Request.Context(), userID, c.Query("start"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *MenuHandler) KitchenSummary(c *gin.Context) {
	summary, err := h.menus.KitchenSummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *MenuHandler) AutoAssign(c *gin.Context) {
	var req types.AutoAssignRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "invalid request body")
			return
		}
	}

	result, err := h.menus.AutoAssignWeek(c.Request.Context(), req.WeekStart)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
