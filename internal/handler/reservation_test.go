package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// stubStore satisfies repository.ReservationStore for handler tests.
// Begin is never reached by the paths under test.
type stubStore struct {
	listPage     int
	listPageSize int
	listItems    []repository.ReservationItem
	listTotal    int
}

func (s *stubStore) Begin(ctx context.Context) (repository.ReservationTx, error) {
	panic("Begin must not be called in handler tests")
}

func (s *stubStore) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]repository.ReservationItem, int, error) {
	s.listPage = page
	s.listPageSize = pageSize
	return s.listItems, s.listTotal, nil
}

func postReservation(t *testing.T, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", float64(1))
	return rec, c
}

func TestCreateReservationEmptyTickets(t *testing.T) {
	h := NewReservationHandler(service.NewReservationService(&stubStore{}))

	rec, c := postReservation(t, `{"tickets":[]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tickets list must not be empty", resp["error"])
}

func TestCreateReservationInvalidBody(t *testing.T) {
	h := NewReservationHandler(service.NewReservationService(&stubStore{}))

	rec, c := postReservation(t, `{"tickets": "nope"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReservationRequiresUser(t *testing.T) {
	h := NewReservationHandler(service.NewReservationService(&stubStore{}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{"tickets":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListReservationsClampsPageSize(t *testing.T) {
	store := &stubStore{listItems: []repository.ReservationItem{}, listTotal: 0}
	h := NewReservationHandler(service.NewReservationService(store))

	req := httptest.NewRequest(http.MethodGet, "/v1/reservations?page=2&page_size=500", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", float64(1))

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, store.listPage)
	assert.Equal(t, 30, store.listPageSize)

	var resp listReservationsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 30, resp.PageSize)
	assert.Equal(t, 0, resp.Count)
}
