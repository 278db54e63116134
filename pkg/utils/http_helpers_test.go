package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "office-docflow/pkg/errors"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("filter[target_branch]=procurement,finance&sort[created_at]=asc&sort[id]=sideways&limit=10&page=3")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)

	assert.Equal(t, "procurement,finance", f.Filter["target_branch"])
	assert.Equal(t, map[string]string{"created_at": "asc"}, f.Sort)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 20, f.Offset)
	assert.True(t, f.WithPagination)
}

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"limit": {"100000"}, "withPagination": {"false"}})

	assert.Equal(t, MaxLimit, f.Limit)
	assert.False(t, f.WithPagination)
	assert.Equal(t, "desc", f.Sort["created_at"])
	assert.Empty(t, f.Filter)
}

func TestParseFilterFromQuery_RepeatedFilterKey(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{"filter[status]": {"submitted", "procured"}})
	assert.Equal(t, "submitted,procured", f.Filter["status"])
}

func respond(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"eligibility", apperrors.NewEligibilityError("нельзя"), http.StatusConflict},
		{"validation", apperrors.NewValidationError("плохо", map[string]string{"number": "required"}), http.StatusBadRequest},
		{"store", apperrors.NewStoreError("insert", assert.AnError), http.StatusInternalServerError},
		{"bare branch sentinel", apperrors.ErrBranchNotAssigned, http.StatusForbidden},
		{"bare token sentinel", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := respond(t, tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, false, body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorResponse_ValidationDetails(t *testing.T) {
	_, body := respond(t, apperrors.NewValidationError("плохо", map[string]string{"number": "required"}))
	assert.Equal(t, map[string]interface{}{"number": "required"}, body["body"])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("01.03.2024")
	assert.Error(t, err)
}
