package utils

import (
	"context"

	"office-docflow/internal/authz"
	"office-docflow/pkg/contextkeys"
	apperrors "office-docflow/pkg/errors"
)

func GetSessionFromCtx(ctx context.Context) (authz.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(authz.Session)
	if !ok {
		return authz.Session{}, apperrors.ErrSessionNotInContext
	}
	return session, nil
}

func WithSession(ctx context.Context, session authz.Session) context.Context {
	return context.WithValue(ctx, contextkeys.SessionKey, session)
}
