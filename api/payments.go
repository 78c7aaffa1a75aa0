package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
}

func NewPaymentHandler(service payment.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings/:id/payment", h.create)
	router.GET("/payments", h.list)
}

type createPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type paymentResponse struct {
	ID            int64   `json:"id"`
	BookingID     int64   `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id"`
	PaymentTime   string  `json:"payment_time"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		PaymentMethod: p.Method,
		PaymentStatus: string(p.Status),
		TransactionID: p.TransactionID,
		PaymentTime:   p.PaymentTime.Format(time.RFC3339),
	}
}

func (h *PaymentHandler) create(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid booking id", Code: codeInvalidRequest})
		return
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidRequest})
		return
	}

	result, err := h.service.Record(c.Request.Context(), bookingID, req.PaymentMethod)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(result))
}

func (h *PaymentHandler) list(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]paymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, resp)
}
