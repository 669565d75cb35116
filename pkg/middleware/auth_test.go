package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"biomed-system/pkg/service"
	"biomed-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())
	token, err := jwtSvc.GenerateAccessToken("tech-7")
	require.NoError(t, err)

	var seen string
	handler := mw.Auth(func(c echo.Context) error {
		seen, _ = utils.GetUserIDFromCtx(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{name: "valid token", header: "Bearer " + token, wantCode: http.StatusNoContent, wantUser: "tech-7"},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/equipment", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			require.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}
