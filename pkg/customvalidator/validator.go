// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// MaxAmount - верхняя граница (не включительно) денежных сумм, колонки NUMERIC(18, 2).
const MaxAmount = 1e16

// RoundAmount округляет сумму до копеек, половина от нуля.
func RoundAmount(f float64) float64 {
	return math.Round(f*100) / 100
}

// RegisterCustomValidations регистрирует правила, которые используются в тегах DTO.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("nonneg_number", isNonNegativeNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("date_only", isDateOnly); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	return nil
}

// isNonNegativeNumber - конечное число >= 0, после округления до копеек меньше MaxAmount.
// Строки (в том числе json.Number) разбираются как float.
func isNonNegativeNumber(fl validator.FieldLevel) bool {
	var f float64
	field := fl.Field()

	switch field.Kind() {
	case reflect.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(field.String()), 64)
		if err != nil {
			return false
		}
		f = parsed
	case reflect.Float32, reflect.Float64:
		f = field.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(field.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(field.Uint())
	default:
		return false
	}

	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 && RoundAmount(f) < MaxAmount
}

// isDateOnly - календарная дата вида 2024-03-01.
func isDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}
