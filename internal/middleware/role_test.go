package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("ADMIN", "CUSTOMER")

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/shows", nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		require.NoError(t, mw(next)(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("ADMIN").Code)
	assert.Equal(t, http.StatusOK, run("CUSTOMER").Code)
	assert.Equal(t, http.StatusForbidden, run("OTHER").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(42).Code)
}
