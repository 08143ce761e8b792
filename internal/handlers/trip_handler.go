package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
)

// TripHandler handles HTTP requests for trip search and trip management
type TripHandler struct {
	service *services.TripService
	logger  *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *services.TripService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		logger:  logger,
	}
}

// SearchTrips handles GET /api/v1/trips/search
// @Summary Search for bookable trips
// @Description Search trips by from/to station names and travel date. Without from/to, lists recent trips.
// @Tags Trips
// @Produce json
// @Param from query string false "Origin station name (substring match)"
// @Param to query string false "Destination station name (substring match)"
// @Param date query string false "Travel date (YYYY-MM-DD, defaults to today)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Results per page" default(10)
// @Success 200 {object} models.SearchTripsResponse
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/trips/search [get]
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var req models.SearchTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.service.SearchTrips(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTrip handles GET /api/v1/trips/:id
// @Summary Get a trip
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Router /api/v1/trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.service.GetTrip(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"trip":   trip,
	})
}

// CreateTrip handles POST /api/v1/trips
// @Summary Materialize a trip from a schedule
// @Description Creates the trip for a schedule and date. Idempotent: repeating the call returns the existing trip.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body models.CreateTripRequest true "Schedule and date"
// @Success 200 {object} map[string]interface{} "Trip already existed"
// @Success 201 {object} map[string]interface{} "Trip created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Router /api/v1/trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, created, err := h.service.CreateTrip(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"status":  "success",
		"created": created,
		"trip":    trip,
	})
}

// DeleteTrip handles DELETE /api/v1/trips/:id
// @Summary Delete a trip
// @Description Removes a trip. Refused while any seat on it is booked.
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Failure 422 {object} map[string]interface{} "Trip has booked seats"
// @Router /api/v1/trips/{id} [delete]
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.service.DeleteTrip(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Trip deleted",
	})
}
