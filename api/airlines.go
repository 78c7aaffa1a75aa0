package api

import (
	"net/http"
	"time"

	"github.com/avolkov/flightbooking/internal/repository"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	airlines repository.AirlineRepository
}

func NewAirlineHandler(airlines repository.AirlineRepository) *AirlineHandler {
	return &AirlineHandler{airlines: airlines}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.GET("/airlines", h.list)
}

type airlineResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Country   string `json:"country"`
	CreatedAt string `json:"created_at"`
}

func (h *AirlineHandler) list(c *gin.Context) {
	airlines, err := h.airlines.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]airlineResponse, 0, len(airlines))
	for _, a := range airlines {
		resp = append(resp, airlineResponse{
			ID:        a.ID,
			Name:      a.Name,
			Code:      a.Code,
			Country:   a.Country,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}
