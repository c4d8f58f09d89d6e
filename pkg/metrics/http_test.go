package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/cases/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.ErrNotFound
		}
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/cases/a", "/cases/b", "/cases/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/cases/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/cases/:id", "404")))
}
