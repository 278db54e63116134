package authz

import (
	"strings"

	"office-docflow/internal/entities"
	apperrors "office-docflow/pkg/errors"
)

// Session - аутентифицированный пользователь и его подразделение.
// Передаётся явно в каждый вызов сервисов жизненного цикла.
type Session struct {
	UserID string
	Branch entities.Branch
}

func (s Session) IsSuperAdmin() bool {
	return s.Branch == entities.BranchSuperAdmin
}

// ResolveSession строит сессию из данных токена.
// Нет подразделения или оно неизвестно - доступ закрыт, без подстановки super_admin.
func ResolveSession(userID, branch string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, apperrors.ErrUnauthorized
	}
	b := entities.Branch(strings.TrimSpace(branch))
	if b == "" || !b.IsKnown() {
		return Session{}, apperrors.ErrBranchNotAssigned
	}
	return Session{UserID: userID, Branch: b}, nil
}
