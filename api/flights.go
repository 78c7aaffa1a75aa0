package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/pricing"
	"github.com/avolkov/flightbooking/internal/repository"
	"github.com/avolkov/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.POST("/flights", h.create)
	router.GET("/flights/:id", h.get)
	router.GET("/flights/:id/seats", h.listSeats)
}

type createFlightRequest struct {
	AirlineID       int64   `json:"airline_id"`
	FlightNumber    string  `json:"flight_number"`
	Source          string  `json:"source"`
	Destination     string  `json:"destination"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalSeats      int     `json:"total_seats"`
	BasePrice       float64 `json:"base_price"`
}

type flightResponse struct {
	ID              int64   `json:"id"`
	AirlineID       int64   `json:"airline_id"`
	FlightNumber    string  `json:"flight_number"`
	Source          string  `json:"source"`
	Destination     string  `json:"destination"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalSeats      int     `json:"total_seats"`
	AvailableSeats  int     `json:"available_seats"`
	BasePrice       float64 `json:"base_price"`
	DynamicPrice    float64 `json:"dynamic_price"`
}

type seatResponse struct {
	ID         int64  `json:"id"`
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
	BookingID  *int64 `json:"booking_id,omitempty"`
}

func toFlightResponse(f domain.Flight) flightResponse {
	// Occupancy-only quote, mirroring the listing serializer of the original
	// system: no date tier on read views.
	dynamic := pricing.Quote(f.BasePrice, pricing.Occupancy{
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
	}, f.DepartureTime, time.Time{})

	return flightResponse{
		ID:              f.ID,
		AirlineID:       f.AirlineID,
		FlightNumber:    f.FlightNumber,
		Source:          f.Source,
		Destination:     f.Destination,
		DepartureTime:   f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:     f.ArrivalTime.Format(time.RFC3339),
		DurationMinutes: f.DurationMinutes,
		TotalSeats:      f.TotalSeats,
		AvailableSeats:  f.AvailableSeats,
		BasePrice:       f.BasePrice,
		DynamicPrice:    dynamic,
	}
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := repository.FlightFilter{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
		Sort:        c.Query("sort"),
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date, expected YYYY-MM-DD", Code: codeInvalidRequest})
			return
		}
		filter.Date = &day
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidRequest})
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid departure_time, expected RFC3339", Code: codeInvalidRequest})
		return
	}
	arrival := departure
	if req.ArrivalTime != "" {
		arrival, err = time.Parse(time.RFC3339, req.ArrivalTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid arrival_time, expected RFC3339", Code: codeInvalidRequest})
			return
		}
	}

	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		AirlineID:       req.AirlineID,
		FlightNumber:    req.FlightNumber,
		Source:          req.Source,
		Destination:     req.Destination,
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		DurationMinutes: req.DurationMinutes,
		TotalSeats:      req.TotalSeats,
		BasePrice:       req.BasePrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id", Code: codeInvalidRequest})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *FlightHandler) listSeats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id", Code: codeInvalidRequest})
		return
	}
	seats, err := h.service.ListSeats(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]seatResponse, 0, len(seats))
	for _, s := range seats {
		resp = append(resp, seatResponse{ID: s.ID, SeatNumber: s.SeatNumber, IsBooked: s.IsBooked, BookingID: s.BookingID})
	}
	c.JSON(http.StatusOK, resp)
}
