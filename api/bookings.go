package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/flights/:id/seats/book", h.bookSeats)
	router.POST("/flights/:id/book", h.book)
	router.POST("/bookings/:id/cancel", h.cancel)
	router.GET("/bookings/:id", h.get)
	router.GET("/users/:id/bookings", h.listByUser)
}

type bookRequest struct {
	UserID      int64    `json:"user_id"`
	SeatNumbers []string `json:"seat_numbers"`
	SeatsBooked int      `json:"seats_booked"`
}

type bookingResponse struct {
	ID             int64    `json:"id"`
	PNR            string   `json:"pnr"`
	UserID         int64    `json:"user_id"`
	FlightID       int64    `json:"flight_id"`
	SeatNumbers    []string `json:"seat_numbers"`
	SeatsBooked    int      `json:"seats_booked"`
	PricePerTicket float64  `json:"price_per_ticket"`
	TotalPrice     float64  `json:"total_price"`
	Status         string   `json:"status"`
	BookedAt       string   `json:"booked_at"`
	CancelledAt    string   `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:             b.ID,
		PNR:            b.PNR,
		UserID:         b.UserID,
		FlightID:       b.FlightID,
		SeatNumbers:    b.SeatNumbers,
		SeatsBooked:    b.SeatsBooked,
		PricePerTicket: b.PricePerTicket,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		BookedAt:       b.BookedAt.Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

// bookSeats reserves explicitly named seats.
func (h *BookingHandler) bookSeats(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid flight id", Code: codeInvalidRequest})
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidRequest})
		return
	}
	if req.UserID == 0 || len(req.SeatNumbers) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id and seat_numbers required", Code: codeInvalidRequest})
		return
	}

	result, err := h.service.Reserve(c.Request.Context(), booking.ReserveInput{
		FlightID:    flightID,
		UserID:      req.UserID,
		SeatNumbers: req.SeatNumbers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(result))
}

// book reserves named seats when given, otherwise auto-selects seats_booked
// seats (default 1). Both entry points share the same reservation core.
func (h *BookingHandler) book(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid flight id", Code: codeInvalidRequest})
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidRequest})
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "user_id required", Code: codeInvalidRequest})
		return
	}

	var result *domain.Booking
	if len(req.SeatNumbers) > 0 {
		result, err = h.service.Reserve(c.Request.Context(), booking.ReserveInput{
			FlightID:    flightID,
			UserID:      req.UserID,
			SeatNumbers: req.SeatNumbers,
		})
	} else {
		count := req.SeatsBooked
		if count == 0 {
			count = 1
		}
		result, err = h.service.ReserveAny(c.Request.Context(), flightID, req.UserID, count)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(result))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: codeInvalidRequest})
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "pnr": cancelled.PNR})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: codeInvalidRequest})
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) listByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user id", Code: codeInvalidRequest})
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}
