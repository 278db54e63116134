package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"office-docflow/internal/authz"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/service"
	"office-docflow/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и кладёт в контекст запроса authz.Session.
// Токен без подразделения (или с неизвестным) отклоняется с 403.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Требуется авторизация", apperrors.ErrEmptyAuthHeader), m.logger)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Неверный формат заголовка авторизации", apperrors.ErrInvalidAuthHeader), m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError("Недействительный токен", err), m.logger)
		}

		session, err := authz.ResolveSession(claims.UserID, claims.Branch)
		if err != nil {
			m.logger.Warn("AuthMiddleware: Не удалось определить подразделение",
				zap.String("userID", claims.UserID),
				zap.String("branch", claims.Branch),
				zap.Error(err),
			)
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(utils.WithSession(c.Request().Context(), session)))

		m.logger.Debug("AuthMiddleware: Пользователь аутентифицирован",
			zap.String("userID", session.UserID),
			zap.String("branch", session.Branch.String()),
		)

		return next(c)
	}
}
