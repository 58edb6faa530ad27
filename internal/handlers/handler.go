package handlers

import (
	"net/http"

	"smart_notes/internal/logger"
	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Note-event feed over WebSocket — same port
	router.GET("/ws", h.wsFeed)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/refresh", h.refresh)
		auth.GET("/me", h.authGate, h.me)
		auth.POST("/logout", h.authGate, h.logout)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authGate)
	{
		h.registerNoteRoutes(api)
		api.POST("/chat", h.chat)
	}
}

func (h *Handler) registerNoteRoutes(api *gin.RouterGroup) {
	notes := api.Group("/notes")
	{
		notes.GET("", h.listNotes)
		notes.POST("", h.createNote)
		notes.PATCH("/:id", h.updateNote)
		notes.PATCH("/:id/tags", h.updateNoteTags)
		notes.DELETE("/:id", h.deleteNote)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
