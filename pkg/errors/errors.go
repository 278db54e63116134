package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")

	// Авторизация
	ErrEmptyAuthHeader     = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader   = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized        = fmt.Errorf("неавторизован")
	ErrForbidden           = fmt.Errorf("доступ запрещён")
	ErrBranchNotAssigned   = fmt.Errorf("пользователю не назначено подразделение")
	ErrSessionNotInContext = fmt.Errorf("сессия не найдена в контексте запроса")

	// Жизненный цикл документов
	ErrValidation       = fmt.Errorf("ошибка валидации")
	ErrNotEligible      = fmt.Errorf("действие недоступно для текущего состояния документа")
	ErrAlreadyProcessed = fmt.Errorf("документ уже обработан")
	ErrStore            = fmt.Errorf("ошибка хранилища данных")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrInternal   = fmt.Errorf("внутренняя ошибка сервера")
)

// HttpError несёт HTTP-код, сообщение для пользователя и исходную ошибку для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

// NewValidationError - ошибка входных данных; details уходит клиенту в body.
func NewValidationError(message string, details interface{}) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation, Details: details}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewEligibilityError(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message, Err: ErrNotEligible}
}

func NewConflictError(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message, Err: ErrAlreadyProcessed}
}

func NewForbiddenError(message string) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

func NewUnauthorizedError(message string, err error) *HttpError {
	if err == nil {
		err = ErrUnauthorized
	}
	return &HttpError{Code: http.StatusUnauthorized, Message: message, Err: err}
}

// NewStoreError оборачивает сбой хранилища, сохраняя и ErrStore, и исходную причину.
func NewStoreError(op string, err error) *HttpError {
	return &HttpError{
		Code:    http.StatusInternalServerError,
		Message: "Ошибка хранилища данных",
		Err:     fmt.Errorf("%s: %w: %w", op, ErrStore, err),
	}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message, Err: ErrInternal}
}

// IsHttpError - короткая проверка для сервисов: уже ли ошибка "оформлена".
func IsHttpError(err error) bool {
	var httpErr *HttpError
	return errors.As(err, &httpErr)
}
