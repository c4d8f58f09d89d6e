package middleware

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/trace"
	"caseLibrary/pkg/utils"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	return e
}

func whoAmI(c echo.Context) error {
	id, ok := IdentityFrom(c)
	if !ok {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, id.Identifier())
}

func token(t *testing.T, userID, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.GenerateJWT(userID, role, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newEcho()
	e.GET("/me", whoAmI, AuthMiddleware())

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"bad format", "Token abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + token(t, "u1", "user", -time.Minute), http.StatusUnauthorized, ""},
		{"guest subject", "Bearer " + token(t, "guest_x", "user", time.Hour), http.StatusUnauthorized, ""},
		{"ok", "Bearer " + token(t, "u1", "user", time.Hour), http.StatusOK, "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newEcho()
	e.GET("/me", whoAmI, OptionalIdentity())

	do := func(headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "anonymous", do(nil).Body.String())
	assert.Equal(t, "guest_abc", do(map[string]string{HeaderGuestID: "guest_abc"}).Body.String())
	assert.Equal(t, "anonymous", do(map[string]string{HeaderGuestID: "abc"}).Body.String())
	assert.Equal(t, "u1", do(map[string]string{
		"Authorization": "Bearer " + token(t, "u1", "user", time.Hour),
		HeaderGuestID:   "guest_abc",
	}).Body.String())
	assert.Equal(t, http.StatusUnauthorized, do(map[string]string{"Authorization": "Bearer nope"}).Code)
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newEcho()
	e.GET("/admin", whoAmI, AuthMiddleware(), AdminOnly())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u1", "user", time.Hour))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "root", "admin", time.Hour))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{domain.ValidationError("invalid record id"), http.StatusBadRequest, "BAD_REQUEST", "invalid record id"},
		{domain.UnauthorizedError("please sign in"), http.StatusUnauthorized, "UNAUTHORIZED", "please sign in"},
		{domain.NotFoundError("record not found"), http.StatusNotFound, "NOT_FOUND", "record not found"},
		{domain.ConflictError("already liked"), http.StatusConflict, "CONFLICT", "already liked"},
		{domain.TransactionError(errors.New("deadlock")), http.StatusInternalServerError, "TRANSACTION_FAILED", "please try again"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
		{echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Not Found"},
	}

	for _, tc := range cases {
		e := newEcho()
		e.GET("/x", func(echo.Context) error { return tc.err })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, tc.code, body["code"])
		assert.Equal(t, tc.message, body["message"])
	}
}

func TestRequestTrace(t *testing.T) {
	e := newEcho()
	e.Use(echomiddleware.RequestID(), RequestTrace())
	e.GET("/t", func(c echo.Context) error {
		return c.String(http.StatusOK, trace.TraceIDFromContext(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Body.String())
}
