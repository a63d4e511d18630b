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

// ThemeHandler serves show themes.
type ThemeHandler struct {
	Themes *repository.ThemeRepo
}

func NewThemeHandler(themes *repository.ThemeRepo) *ThemeHandler {
	return &ThemeHandler{Themes: themes}
}

type createThemeReq struct {
	Name string `json:"name"`
}

// Create adds a theme.
func (h *ThemeHandler) Create(c echo.Context) error {
	var req createThemeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Themes.Create(ctx, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theme failed"})
	}
	return c.JSON(http.StatusCreated, repository.ThemeRow{ID: id, Name: strings.TrimSpace(req.Name)})
}

// List returns themes, optionally narrowed by show_id or show_name.
func (h *ThemeHandler) List(c echo.Context) error {
	var f repository.ThemeFilter
	if s := c.QueryParam("show_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_id"})
		}
		f.ShowID = n
	}
	f.ShowName = strings.TrimSpace(c.QueryParam("show_name"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Themes.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list themes failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one theme with its show titles.
func (h *ThemeHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Themes.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load theme failed"})
	}
	return c.JSON(http.StatusOK, det)
}
