package customvalidator

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Price json.Number `validate:"required,nonneg_number"`
	Date  string      `validate:"required,date_only"`
	Name  string      `validate:"required,notblank"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestNonNegativeNumber(t *testing.T) {
	v := newValidator(t)

	for _, ok := range []string{"0", "12.5", "1e3", " 42 ", "999999999999999.99"} {
		assert.NoError(t, v.Struct(priced{Price: json.Number(ok), Date: "2024-01-01", Name: "x"}), ok)
	}
	for _, bad := range []string{"-1", "abc", "NaN", "Inf", "1e400", "1e16", "1e20", "9999999999999999.999"} {
		assert.Error(t, v.Struct(priced{Price: json.Number(bad), Date: "2024-01-01", Name: "x"}), bad)
	}
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 10.01, RoundAmount(10.006))
	assert.Equal(t, 0.13, RoundAmount(0.125))
	assert.Equal(t, 1500.5, RoundAmount(1500.5))
	assert.Equal(t, 0.0, RoundAmount(0.004))
}

func TestDateOnly(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(priced{Price: "1", Date: "2024-02-29", Name: "x"}))
	assert.Error(t, v.Struct(priced{Price: "1", Date: "2023-02-29", Name: "x"}))
	assert.Error(t, v.Struct(priced{Price: "1", Date: "29.02.2024", Name: "x"}))
}

func TestNotBlank(t *testing.T) {
	v := newValidator(t)
	assert.Error(t, v.Struct(priced{Price: "1", Date: "2024-01-01", Name: "   "}))
}
