package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"office-docflow/internal/authz"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/eventbus"
	"office-docflow/pkg/validation"
)

// Validator - то же, что echo.Validator; сервисы проверяют входные данные сами,
// чтобы правила действовали при любом вызывающем коде.
type Validator interface {
	Validate(i interface{}) error
}

// Publisher - шина событий (eventbus.Bus).
type Publisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type BaseService struct {
	validator Validator
	bus       Publisher
	logger    *zap.Logger
}

func NewBaseService(validator Validator, bus Publisher, logger *zap.Logger) BaseService {
	return BaseService{validator: validator, bus: bus, logger: logger}
}

// CheckPermission - может ли подразделение сессии выполнить действие.
func (s *BaseService) CheckPermission(session authz.Session, action string) error {
	if authz.Can(session.Branch, action) {
		return nil
	}
	s.logger.Warn("Отказано в доступе",
		zap.String("userID", session.UserID),
		zap.String("branch", session.Branch.String()),
		zap.String("action", action),
	)
	return apperrors.NewForbiddenError(fmt.Sprintf("Подразделению '%s' недоступно действие '%s'", session.Branch, action))
}

func (s *BaseService) validate(payload interface{}) error {
	if err := s.validator.Validate(payload); err != nil {
		return validation.ToValidationError(err)
	}
	return nil
}

func (s *BaseService) publish(ctx context.Context, event eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

// storeErr оставляет "оформленные" ошибки как есть, ErrNotFound превращает в 404,
// остальное считается сбоем хранилища.
func storeErr(op, notFoundMsg string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsHttpError(err) {
		return err
	}
	if errors.Is(err, apperrors.ErrNotFound) && notFoundMsg != "" {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return apperrors.NewStoreError(op, err)
}
