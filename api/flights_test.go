package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/repository"
	"github.com/avolkov/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) ListSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func sampleFlight() domain.Flight {
	departure := time.Date(2026, 9, 20, 8, 30, 0, 0, time.UTC)
	return domain.Flight{
		ID:              4,
		AirlineID:       1,
		FlightNumber:    "SU1204",
		Source:          "SVO",
		Destination:     "LED",
		DepartureTime:   departure,
		ArrivalTime:     departure.Add(95 * time.Minute),
		DurationMinutes: 95,
		TotalSeats:      60,
		AvailableSeats:  60,
		BasePrice:       100.00,
	}
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?source=SVO&sort=price_asc", nil)

	mockService.On("List", c.Request.Context(), repository.FlightFilter{
		Source: "SVO",
		Sort:   "price_asc",
	}).Return([]domain.Flight{sampleFlight()}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []flightResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "SU1204", response[0].FlightNumber)
	// Empty cabin lands in the high-availability tier: 100 * 0.9.
	assert.Equal(t, 90.00, response[0].DynamicPrice)
	assert.Equal(t, 100.00, response[0].BasePrice)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_DynamicPriceTracksOccupancy(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights", nil)

	nearlyFull := sampleFlight()
	nearlyFull.AvailableSeats = 6

	mockService.On("List", c.Request.Context(), repository.FlightFilter{}).
		Return([]domain.Flight{nearlyFull}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []flightResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, 150.00, response[0].DynamicPrice)
}

func TestFlightHandler_list_InvalidDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?date=20-09-2026", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, codeInvalidRequest, response.Code)
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestFlightHandler_get_InvalidID(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/flights/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestFlightHandler_get_NotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("GET", "/flights/42", nil)

	mockService.On("GetByID", c.Request.Context(), int64(42)).
		Return(nil, fmt.Errorf("flight 42: %w", domain.ErrNotFound))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, codeNotFound, response.Code)
}

func TestFlightHandler_listSeats(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Request = httptest.NewRequest("GET", "/flights/4/seats", nil)

	bookingID := int64(77)
	mockService.On("ListSeats", c.Request.Context(), int64(4)).Return([]domain.Seat{
		{ID: 1, FlightID: 4, SeatNumber: "1A", IsBooked: true, BookingID: &bookingID},
		{ID: 2, FlightID: 4, SeatNumber: "1B", IsBooked: false},
	}, nil)

	handler.listSeats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []seatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, "1A", response[0].SeatNumber)
	assert.True(t, response[0].IsBooked)
	assert.Equal(t, int64(77), *response[0].BookingID)
	assert.Nil(t, response[1].BookingID)
}
