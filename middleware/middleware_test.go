package middleware

import (
	"ConnectSpace/logger"
	"ConnectSpace/models"
	"ConnectSpace/utils"
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewareAndRoles(t *testing.T) {
	tokens, err := utils.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	userID := primitive.NewObjectID()
	landlordToken, err := tokens.GenerateJWT(userID, "a@example.com", models.RoleLandlord)
	require.NoError(t, err)
	tenantToken, err := tokens.GenerateJWT(primitive.NewObjectID(), "b@example.com", models.RoleTenant)
	require.NoError(t, err)

	e := echo.New()
	var seen Principal
	e.GET("/", func(c echo.Context) error {
		seen, _ = PrincipalFrom(c)
		return c.NoContent(http.StatusNoContent)
	}, JWTMiddleware(tokens), RequireRole(models.RoleLandlord, models.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, serve(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Token "+landlordToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer "+landlordToken+"x").Code)
	assert.Equal(t, http.StatusForbidden, serve(e, "Bearer "+tenantToken).Code)

	require.Equal(t, http.StatusNoContent, serve(e, "Bearer "+landlordToken).Code)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, models.RoleLandlord, seen.Role)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(e, "").Code)
}

func TestRequestLoggerAttachesScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/", func(c echo.Context) error {
		logger.FromContext(c.Request().Context()).Info("inside handler")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	traceID := rec.Header().Get(TraceHeader)
	assert.NotEqual(t, "not-a-uuid", traceID)
	assert.Len(t, traceID, 36)
	out := buf.String()
	assert.Contains(t, out, `"msg":"inside handler"`)
	assert.Contains(t, out, `"trace_id":"`+traceID+`"`)
	assert.Contains(t, out, `"status_code":204`)
}
