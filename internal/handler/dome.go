package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// DomeHandler serves planetarium domes.
type DomeHandler struct {
	Domes *repository.DomeRepo
}

func NewDomeHandler(domes *repository.DomeRepo) *DomeHandler {
	return &DomeHandler{Domes: domes}
}

type createDomeReq struct {
	Name        string `json:"name"`
	SeatRows    int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
}

// Create adds a dome.  The seating grid must have positive dimensions
// or no session in it could ever sell a ticket.
func (h *DomeHandler) Create(c echo.Context) error {
	var req createDomeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.SeatRows < 1 || req.SeatsPerRow < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_per_row must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Domes.Create(ctx, req.Name, req.SeatRows, req.SeatsPerRow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dome failed"})
	}
	d, err := h.Domes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dome failed"})
	}
	return c.JSON(http.StatusCreated, d)
}

// List returns all domes.
func (h *DomeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Domes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list domes failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one dome.
func (h *DomeHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Domes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load dome failed"})
	}
	return c.JSON(http.StatusOK, d)
}
