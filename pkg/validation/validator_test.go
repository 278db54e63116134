package validation

import (
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "office-docflow/pkg/errors"
)

type sample struct {
	Number    string      `json:"number" validate:"required,notblank"`
	OrderDate null.String `json:"order_date" validate:"omitempty,date_only"`
}

func TestValidator_NullTypes(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Number: "1"}))
	assert.NoError(t, v.Validate(&sample{Number: "1", OrderDate: null.StringFrom("2024-05-01")}))
	assert.Error(t, v.Validate(&sample{Number: "1", OrderDate: null.StringFrom("05/01/2024")}))
}

func TestToValidationError_UsesJSONNames(t *testing.T) {
	v := New()

	err := ToValidationError(v.Validate(&sample{Number: " "}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 400, httpErr.Code)
	assert.Equal(t, map[string]string{"number": "notblank"}, httpErr.Details)
}
