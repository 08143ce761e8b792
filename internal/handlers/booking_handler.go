package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/middleware"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/utils"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

// BookingHandler handles HTTP requests for bookings
type BookingHandler struct {
	service *services.BookingService
	logger  *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
	}
}

// deviceInfo captures the booking client's device fingerprint
func deviceInfo(c *gin.Context) models.DeviceInfo {
	info := utils.ParseDeviceInfo(utils.GetUserAgent(c))
	info["ip"] = utils.GetRealIP(c)
	return models.DeviceInfo(info)
}

// CreateBooking handles POST /api/v1/bookings
// @Summary Book seats on a trip
// @Description Reserves specific seats. All requested seats are booked or none are.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body models.CreateBookingRequest true "Booking details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Failure 409 {object} map[string]interface{} "Seats already booked"
// @Failure 422 {object} map[string]interface{} "Trip already departed"
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var userID *string
	if principal, ok := middleware.GetPrincipal(c); ok && principal.Role == jwt.RoleUser {
		id := principal.SubjectID
		userID = &id
	}

	response, err := h.service.CreateBooking(&req, userID, nil, models.PaymentMethodOnline, deviceInfo(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"booking": response.Booking,
		"trip":    response.Trip,
	})
}

// CreateAgentBooking handles POST /api/v1/agent/bookings
// @Summary Book seats at the counter
// @Description Cash booking made by a signed-in agent. Same validation chain and seat claim as online bookings.
// @Tags Agent
// @Accept json
// @Produce json
// @Param booking body models.CreateBookingRequest true "Booking details"
// @Success 201 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Agent token required"
// @Failure 409 {object} map[string]interface{} "Seats already booked"
// @Security Bearer
// @Router /api/v1/agent/bookings [post]
func (h *BookingHandler) CreateAgentBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Agent authentication required",
		})
		return
	}
	agentID := principal.SubjectID

	response, err := h.service.CreateBooking(&req, nil, &agentID, models.PaymentMethodCash, deviceInfo(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"booking": response.Booking,
		"trip":    response.Trip,
	})
}

// GetBooking handles GET /api/v1/bookings/:id
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	response, err := h.service.GetBooking(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"booking": response.Booking,
		"trip":    response.Trip,
	})
}

// GetBookingByReference handles GET /api/v1/bookings/reference/:reference
// @Summary Look up a booking by its public reference
// @Tags Bookings
// @Produce json
// @Param reference path string true "Booking reference (ST-YYYYMMDD-XXXXXX)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /api/v1/bookings/reference/{reference} [get]
func (h *BookingHandler) GetBookingByReference(c *gin.Context) {
	response, err := h.service.GetBookingByReference(c.Param("reference"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"booking": response.Booking,
		"trip":    response.Trip,
	})
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
// @Summary Cancel a booking
// @Description Cancels a confirmed booking if the cancellation window has not closed. Seats are not released.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param cancellation body models.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 422 {object} map[string]interface{} "Window closed or already cancelled"
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBindError(c, err)
		return
	}

	booking, err := h.service.CancelBooking(c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"booking": booking,
	})
}

// ListMyBookings handles GET /api/v1/bookings
// @Summary List the authenticated user's bookings
// @Tags Bookings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Security Bearer
// @Router /api/v1/bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Authentication required",
		})
		return
	}

	bookings, err := h.service.ListUserBookings(principal.SubjectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// ListTripBookings handles GET /api/v1/agent/trips/:id/bookings
// @Summary List all bookings on a trip
// @Tags Agent
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Security Bearer
// @Router /api/v1/agent/trips/{id}/bookings [get]
func (h *BookingHandler) ListTripBookings(c *gin.Context) {
	bookings, err := h.service.ListTripBookings(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"bookings": bookings,
		"count":    len(bookings),
	})
}
