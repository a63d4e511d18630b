package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/planetarium-reservation/internal/config"
	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
	"github.com/iliyamo/planetarium-reservation/internal/utils"
)

const testSecret = "test-secret"

// emptyStore satisfies repository.ReservationStore; the routes under
// test only ever list.
type emptyStore struct{}

func (emptyStore) Begin(ctx context.Context) (repository.ReservationTx, error) {
	return nil, errors.New("not implemented")
}

func (emptyStore) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]repository.ReservationItem, int, error) {
	return []repository.ReservationItem{}, 0, nil
}

func testHandlers() Handlers {
	return Handlers{
		Auth:         handler.NewAuthHandler(config.Config{JWTSecret: testSecret}, nil, nil),
		Shows:        handler.NewShowHandler(nil),
		Themes:       handler.NewThemeHandler(nil),
		Domes:        handler.NewDomeHandler(nil),
		Sessions:     handler.NewSessionHandler(nil),
		Reservations: handler.NewReservationHandler(service.NewReservationService(emptyStore{})),
	}
}

func bearerFor(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// The response cache must sit behind authentication and wrap only the
// shared catalog reads: a cached payload must never answer an
// unauthenticated request, and owner-scoped routes must never pass
// through it at all.
func TestCacheWrapsOnlyCatalogReadsBehindAuth(t *testing.T) {
	var cachedPaths []string
	cacheMW := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cachedPaths = append(cachedPaths, c.Path())
			// Answer like a cache hit, without reaching the handler.
			return c.JSON(http.StatusOK, echo.Map{"cached": true})
		}
	}

	e := echo.New()
	Register(e, testHandlers(), Middleware{Cache: cacheMW}, testSecret)

	// Without a token every protected route is refused before the
	// cache can answer.
	for _, path := range []string{"/v1/shows", "/v1/sessions", "/v1/reservations", "/v1/me"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Empty(t, cachedPaths)

	auth := bearerFor(t, 1, "CUSTOMER")

	// Catalog reads go through the cache once authenticated.
	req := httptest.NewRequest(http.MethodGet, "/v1/shows", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/v1/shows"}, cachedPaths)

	// The owner-scoped reservation list bypasses the cache entirely.
	req = httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	req.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/v1/shows"}, cachedPaths, "reservation list must not be cached")
}

// The rate limiter on protected groups runs after JWT auth, so its
// per-user key strategies see the authenticated user id; on /v1/auth
// it runs without identity.
func TestRateLimiterSeesAuthenticatedUser(t *testing.T) {
	var seen []interface{}
	rlMW := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seen = append(seen, c.Get("user_id"))
			return next(c)
		}
	}

	e := echo.New()
	Register(e, testHandlers(), Middleware{RateLimit: rlMW}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	req.Header.Set("Authorization", bearerFor(t, 7, "CUSTOMER"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, seen, 1)
	assert.Equal(t, float64(7), seen[0], "limiter must observe the JWT subject")

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Len(t, seen, 2)
	assert.Nil(t, seen[1], "no identity exists before login")
}

// Catalog writes stay ADMIN-only regardless of middleware placement.
func TestAdminWritesRejectCustomers(t *testing.T) {
	e := echo.New()
	Register(e, testHandlers(), Middleware{}, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/v1/shows", nil)
	req.Header.Set("Authorization", bearerFor(t, 1, "CUSTOMER"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
