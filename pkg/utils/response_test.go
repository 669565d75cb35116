package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "biomed-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorResponse(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
	}
	validationErr := validator.New().Struct(sample{})

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "http error", err: apperrors.NewHttpError(http.StatusConflict, "cannot close", fmt.Errorf("boom"), nil), wantCode: http.StatusConflict, wantMsg: "cannot close"},
		{name: "wrapped not found", err: fmt.Errorf("equipment EQ-1: %w", apperrors.ErrNotFound), wantCode: http.StatusNotFound, wantMsg: apperrors.ErrNotFound.Error()},
		{name: "invalid input", err: apperrors.NewInvalidInputError("year %d out of range", 99), wantCode: http.StatusBadRequest, wantMsg: "year 99 out of range"},
		{name: "validation errors", err: validationErr, wantCode: http.StatusBadRequest},
		{name: "unexpected", err: fmt.Errorf("disk on fire"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext("/")
			require.NoError(t, ErrorResponse(c, tt.err, zap.NewNop()))
			assert.Equal(t, tt.wantCode, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["status"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestSuccessResponse_Pagination(t *testing.T) {
	c, rec := newContext("/api/equipment?withPagination=true&limit=2&page=2")
	require.NoError(t, SuccessResponse(c, []string{"a", "b"}, "ok", http.StatusOK, 5))

	body := decode(t, rec)
	inner, ok := body["body"].(map[string]interface{})
	require.True(t, ok)
	pagination := inner["pagination"].(map[string]interface{})
	assert.Equal(t, float64(5), pagination["total_count"])
	assert.Equal(t, float64(3), pagination["total_pages"])
	assert.Equal(t, float64(2), pagination["page"])
}

func TestParseFilterFromQuery(t *testing.T) {
	c, _ := newContext("/?search=monitor&sort[name]=DESC&sort[bad]=sideways&filter[status]=OPERATIONAL&filter[status]=LOAN&limit=9999&page=3")
	f := ParseFilterFromQuery(c.Request().URL.Query())

	assert.Equal(t, "monitor", f.Search)
	assert.Equal(t, map[string]string{"name": "desc"}, f.Sort)
	assert.Equal(t, "OPERATIONAL", f.Filter["status"])
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 2*MaxLimit, f.Offset)
	assert.True(t, f.WithPagination)
}
