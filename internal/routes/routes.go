package routes

import (
	"portfolio_backend/internal/handlers"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/middleware"
	"portfolio_backend/internal/services"
	"portfolio_backend/ws"

	"github.com/gin-gonic/gin"
)

// Префиксы, под которыми доступен весь API
var mountPoints = []string{"", "/api"}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authService services.AuthService,
	wsHandler *ws.WebSocketHandler,
) {
	adminOnly := []gin.HandlerFunc{
		middleware.AuthMiddleware(authService),
		middleware.AdminMiddleware(),
	}

	for _, prefix := range mountPoints {
		api := ginRouter.Group(prefix)
		{
			appHandlers.HealthHandler.RegisterRoutes(api)
			appHandlers.AuthHandler.RegisterRoutes(api)
			appHandlers.ProjectHandler.RegisterRoutes(api, adminOnly...)
			appHandlers.ServiceHandler.RegisterRoutes(api, adminOnly...)
			appHandlers.UploadHandler.RegisterRoutes(api, adminOnly...)
			api.GET("/ws", wsHandler.ServeWS)
		}
	}
	logger.Info("Routes registered", "mount_points", mountPoints)
}
