package intake

import (
	"github.com/gin-gonic/gin"

	"workflowmonk/internal/middleware"
	"workflowmonk/internal/pkg/jwt"
)

// RegisterRoutes registers the REST wizard routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, tokens *jwt.Service) {
	w := r.Group("/wizard")
	{
		w.GET("/steps", handler.ListSteps)
		w.GET("/countries", handler.ListCountries)
		w.POST("/validate", handler.ValidateField)
		w.POST("/format-phone", handler.FormatPhone)
		w.POST("/sessions", handler.StartSession)
		w.POST("/sessions/events", middleware.StateToken(tokens), handler.ApplyEvent)
	}
}

// RegisterWSRoutes registers the websocket wizard endpoint
func RegisterWSRoutes(r gin.IRouter, handler *WSHandler) {
	r.GET("/ws/wizard", handler.HandleWebSocket)
}
