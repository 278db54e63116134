package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"office-docflow/pkg/customvalidator"
	apperrors "office-docflow/pkg/errors"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New создает и настраивает валидатор
func New() *CustomValidator {
	v := validator.New()

	// Имена полей в ошибках - как в JSON, а не как в Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	registerNullTypes(v)

	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

// ToValidationError превращает validator.ValidationErrors в HttpError 400
// с картой "поле -> нарушенное правило".
func ToValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("Некорректные данные запроса", nil)
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("Ошибка валидации", details)
}
