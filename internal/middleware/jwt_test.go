package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

func runJWT(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured any
	h := JWTAuth(secret)(func(c echo.Context) error {
		captured = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, captured
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"

	access, err := utils.NewAccessToken(secret, 42, 5)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		rec, uid := runJWT(t, secret, "Bearer "+access.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		// MapClaims decode numeric claims as float64.
		require.Equal(t, float64(42), uid)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := runJWT(t, secret, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		rec, _ := runJWT(t, secret, "Basic abc123")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec, _ := runJWT(t, "other-secret", "Bearer "+access.Token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := runJWT(t, secret, "Bearer not.a.jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
