package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionHeader(t *testing.T) {
	e := echo.New()
	vm := NewVersionMiddleware("v1")

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := vm.VersionHeader()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "active", rec.Header().Get("X-API-Status"))
	assert.Equal(t, "Current stable API version", rec.Header().Get("X-API-Message"))
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantCode  int
	}{
		{
			name:      "success",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantLevel: "info",
			wantCode:  http.StatusOK,
		},
		{
			name:      "client error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "missing") },
			wantLevel: "warn",
			wantCode:  http.StatusNotFound,
		},
		{
			name:      "server error",
			handler:   func(c echo.Context) error { return errors.New("boom") },
			wantLevel: "error",
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()

			req := httptest.NewRequest(http.MethodGet, "/api/invoices/inv_1", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-123")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequestLogger(zerolog.New(&buf))(tt.handler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/api/invoices/inv_1", entry["path"])
			assert.Equal(t, float64(tt.wantCode), entry["status"])
			assert.Equal(t, "req-123", entry["request_id"])
		})
	}
}
