package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/booking"
	"github.com/iliyamo/planetarium-reservation/internal/queue"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

// ReservationHandler serves reservation creation and listing.  The
// atomicity of creation lives in the service; this layer only shapes
// requests and responses.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: svc}
}

type ticketPickReq struct {
	SessionID uint64 `json:"show_session"`
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
}

type createReservationReq struct {
	Tickets []ticketPickReq `json:"tickets"`
}

type reservationTicketResp struct {
	ID        uint64 `json:"id"`
	SessionID uint64 `json:"show_session"`
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
}

type createReservationResp struct {
	ID        uint64                  `json:"id"`
	CreatedAt time.Time               `json:"created_at"`
	Tickets   []reservationTicketResp `json:"tickets"`
}

// Create books every requested place atomically for the current user.
// Validation failures and seat conflicts come back as 400 with the
// rule's message; an unknown session is 404.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	picks := make([]booking.SeatPick, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		picks = append(picks, booking.SeatPick{SessionID: t.SessionID, Row: t.Row, Seat: t.Seat})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := h.Reservations.Create(ctx, userID, picks)
	if err != nil {
		if booking.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, booking.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	// Best effort: the reservation is already committed, so a broker
	// outage only costs the notification.
	event := queue.ReservationConfirmedEvent{
		ReservationID: result.Reservation.ID,
		UserID:        userID,
		CreatedAt:     result.Reservation.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, tk := range result.Tickets {
		event.Tickets = append(event.Tickets, queue.TicketPlace{
			SessionID: tk.SessionID, Row: tk.Row, Seat: tk.Seat,
		})
	}
	_ = service.PublishReservationConfirmed(ctx, event)

	resp := createReservationResp{
		ID:        result.Reservation.ID,
		CreatedAt: result.Reservation.CreatedAt,
		Tickets:   make([]reservationTicketResp, 0, len(result.Tickets)),
	}
	for _, tk := range result.Tickets {
		resp.Tickets = append(resp.Tickets, reservationTicketResp{
			ID: tk.ID, SessionID: tk.SessionID, Row: tk.Row, Seat: tk.Seat,
		})
	}
	return c.JSON(http.StatusCreated, resp)
}

type listReservationsResp struct {
	Count    int                          `json:"count"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
	Results  []repository.ReservationItem `json:"results"`
}

// List returns the current user's reservations, newest first, paged.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := parsePage(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Reservations.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, listReservationsResp{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  items,
	})
}
