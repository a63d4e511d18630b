package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// SessionHandler serves the session registry: scheduled show sessions
// with seat availability.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

type sessionReq struct {
	ShowID   uint64    `json:"show"`
	DomeID   uint64    `json:"dome"`
	ShowTime time.Time `json:"show_time"`
}

func (r sessionReq) validate() string {
	if r.ShowID == 0 {
		return "show required"
	}
	if r.DomeID == 0 {
		return "dome required"
	}
	if r.ShowTime.IsZero() {
		return "show_time required"
	}
	return ""
}

// sessionFilterFrom parses the list filters: date (YYYY-MM-DD),
// show_id and show_name.
func sessionFilterFrom(c echo.Context) (repository.SessionFilter, string) {
	var f repository.SessionFilter
	if s := c.QueryParam("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, "invalid date, expected YYYY-MM-DD"
		}
		f.Date = &d
	}
	if s := c.QueryParam("show_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return f, "invalid show_id"
		}
		f.ShowID = n
	}
	f.ShowName = strings.TrimSpace(c.QueryParam("show_name"))
	return f, ""
}

// List returns sessions in chronological order with tickets_available
// on each row.
func (h *SessionHandler) List(c echo.Context) error {
	f, msg := sessionFilterFrom(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Sessions.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sessions failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one session with its show, dome and taken places.
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Create schedules a session.
func (h *SessionHandler) Create(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Sessions.Create(ctx, req.ShowID, req.DomeID, req.ShowTime)
	if err != nil {
		return sessionWriteError(c, err)
	}
	det, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
	}
	return c.JSON(http.StatusCreated, det)
}

// Update reschedules a session.
func (h *SessionHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Update(ctx, id, req.ShowID, req.DomeID, req.ShowTime); err != nil {
		return sessionWriteError(c, err)
	}
	det, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
	}
	return c.JSON(http.StatusOK, det)
}

// Delete removes a session and, through the cascade, its tickets.
func (h *SessionHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete session failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func sessionWriteError(c echo.Context, err error) error {
	switch err {
	case repository.ErrShowNotFound:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show not found"})
	case repository.ErrDomeNotFound:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dome not found"})
	case repository.ErrSessionNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "write session failed"})
	}
}
