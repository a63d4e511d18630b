package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// ShowHandler serves the astronomy show catalog.
type ShowHandler struct {
	Shows *repository.ShowRepo
}

func NewShowHandler(shows *repository.ShowRepo) *ShowHandler {
	return &ShowHandler{Shows: shows}
}

type createShowReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ThemeIDs    []uint64 `json:"themes"`
}

// Create adds a show with its theme links.
func (h *ShowHandler) Create(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Shows.Create(ctx, req.Title, req.Description, req.ThemeIDs)
	switch err {
	case nil:
	case repository.ErrTitleExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "show title already exists"})
	case repository.ErrThemeNotFound:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}

	det, err := h.Shows.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
	}
	return c.JSON(http.StatusCreated, det)
}

// List returns all shows with their theme ids.
func (h *ShowHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Shows.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one show with theme names resolved.
func (h *ShowHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Shows.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
	}
	return c.JSON(http.StatusOK, det)
}
