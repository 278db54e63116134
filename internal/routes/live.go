package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/controllers"
	"office-docflow/pkg/service"
	appwebsocket "office-docflow/pkg/websocket"
)

// runLiveRouter вешается на открытую группу: токен проверяет сам контроллер.
func runLiveRouter(api *echo.Group, hub *appwebsocket.Hub, jwtSvc service.JWTService, allowedOrigins []string, logger *zap.Logger) {
	liveCtrl := controllers.NewLiveController(hub, jwtSvc, allowedOrigins, logger)

	api.GET("/ws", liveCtrl.ServeWs)
}
