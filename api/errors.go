package api

import (
	"errors"
	"net/http"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	codeNotFound       = "not_found"
	codeInvalidRequest = "invalid_request"
	codeConflict       = "conflict"
	codeBusy           = "busy"
	codeInternalError  = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps the domain error taxonomy to a status and a stable code.
// State conflicts surface as 400 with a conflict code, matching the public
// contract for already-booked seats and repeated cancellations.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: codeNotFound})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidRequest})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeConflict})
	case errors.Is(err, domain.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: codeBusy})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: codeInternalError})
	}
}
