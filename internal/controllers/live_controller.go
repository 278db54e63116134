package controllers

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/authz"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/service"
	"office-docflow/pkg/utils"
	appwebsocket "office-docflow/pkg/websocket"
)

// LiveController открывает WebSocket с уведомлениями о новых записях.
// Браузер не умеет ставить заголовок Authorization при апгрейде, поэтому токен идёт в query.
type LiveController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

func NewLiveController(hub *appwebsocket.Hub, jwtService service.JWTService, allowedOrigins []string, logger *zap.Logger) *LiveController {
	return &LiveController{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

func (c *LiveController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return utils.ErrorResponse(ctx, apperrors.NewUnauthorizedError("Требуется авторизация", apperrors.ErrEmptyAuthHeader), c.logger)
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewUnauthorizedError("Недействительный токен", err), c.logger)
	}
	session, err := authz.ResolveSession(claims.UserID, claims.Branch)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Warn("WebSocket: не удалось выполнить апгрейд соединения", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, session.Branch.String(), session.UserID)
	if !c.hub.Register(client) {
		_ = conn.Close()
		return nil
	}
	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.String("userID", session.UserID), zap.String("branch", session.Branch.String()))
	return nil
}
