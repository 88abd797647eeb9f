package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shenikar/jalanguard/internal/config"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	requireAuth := JWTAuthMiddleware(h.tokens, h.logger)

	// Аутентификация
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", requireAuth, h.logout)
		authGroup.GET("/me", requireAuth, h.me)
	}

	// Заявки: чтение публичное, изменение только с токеном
	reports := api.Group("/reports")
	{
		reports.POST("", requireAuth, h.createReport)
		reports.POST("/upload-image", requireAuth, h.uploadImage)
		reports.GET("", h.listReports)
		reports.GET("/me", requireAuth, h.listMyReports)
		reports.GET("/:id", h.getReport)
		reports.PATCH("/:id", requireAuth, h.updateReport)
		reports.DELETE("/:id", requireAuth, h.deleteReport)
	}

	// Профили
	users := api.Group("/users")
	{
		users.GET("/:id", h.getUser)
		users.PATCH("/me", requireAuth, h.updateMe)
		users.DELETE("/me", requireAuth, h.deleteMe)
	}
}

// RegisterSystemRoutes регистрирует health-check маршруты вне версии API
func (h *Handler) RegisterSystemRoutes(router gin.IRoutes) {
	router.GET("/", h.root)
	router.GET("/api/health", h.healthCheck)
}

// CORSMiddleware разрешает запросы с источников из CORS_ORIGINS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// @Summary Application info
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", App: h.cfg.AppName, Version: h.cfg.AppVersion})
}

// @Summary Get application health status
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}
